package form

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/blocks_bot/internal/duration"
	"github.com/Freeeeeet/blocks_bot/internal/model"
)

// ErrBusy - заявка уже отправляется
var ErrBusy = errors.New("form is already submitting")

// Values - значения полей в том виде, в каком их ввёл пользователь
type Values struct {
	Department        string `json:"department" validate:"required"`
	DEN               string `json:"den" validate:"required"`
	NatureOfWork      string `json:"nature_of_work" validate:"required"`
	Block             string `json:"block" validate:"required"`
	Location          string `json:"location" validate:"required"`
	PreferredStartsAt string `json:"preferred_starts_at" validate:"required,clock"`
	PreferredEndsAt   string `json:"preferred_ends_at" validate:"required,clock"`
	RequestedDate     string `json:"requested_date" validate:"required,day"`
	RequestedDuration string `json:"requested_duration" validate:"required,nonneg"`
	Priority          string `json:"priority" validate:"required,posint"`
	SectionID         string `json:"section_id" validate:"required,posint"`
}

// Defaults возвращает свежую форму со значениями по умолчанию
func Defaults(now time.Time) Values {
	return Values{
		Department:        "Engineering",
		DEN:               "IDK",
		NatureOfWork:      "Bizness",
		Block:             "AJR-KLM",
		Location:          "Lights",
		PreferredStartsAt: "00:00",
		PreferredEndsAt:   "23:59",
		RequestedDate:     now.Format("2006-01-02"),
		RequestedDuration: "0",
		Priority:          "1",
		SectionID:         "1",
	}
}

func (v *Values) ptr(key string) *string {
	switch key {
	case FieldDepartment:
		return &v.Department
	case FieldDEN:
		return &v.DEN
	case FieldNatureOfWork:
		return &v.NatureOfWork
	case FieldBlock:
		return &v.Block
	case FieldLocation:
		return &v.Location
	case FieldPreferredStartsAt:
		return &v.PreferredStartsAt
	case FieldPreferredEndsAt:
		return &v.PreferredEndsAt
	case FieldRequestedDate:
		return &v.RequestedDate
	case FieldRequestedDuration:
		return &v.RequestedDuration
	case FieldPriority:
		return &v.Priority
	case FieldSectionID:
		return &v.SectionID
	}
	return nil
}

// Get возвращает значение поля
func (v Values) Get(key string) string {
	if p := v.ptr(key); p != nil {
		return *p
	}
	return ""
}

// Set записывает значение поля без проверки
func (v *Values) Set(key, value string) error {
	p := v.ptr(key)
	if p == nil {
		return fmt.Errorf("unknown form field %q", key)
	}
	*p = value
	return nil
}

func (v Values) trimmed() Values {
	for _, f := range Fields {
		p := v.ptr(f.Key)
		*p = strings.TrimSpace(*p)
	}
	return v
}

// Normalize проверяет форму и приводит её к виду, который ждёт сервер:
// время с секундами (":00"), дата ГГГГ-ММ-ДД, длительность в минутах.
func Normalize(v Values) (model.PartialRequestedTask, error) {
	if err := Validate(v); err != nil {
		return model.PartialRequestedTask{}, err
	}
	v = v.trimmed()

	date, _ := parseDate(v.RequestedDate)
	minutes, _ := strconv.Atoi(v.RequestedDuration)
	priority, _ := strconv.Atoi(v.Priority)
	sectionID, _ := strconv.ParseInt(v.SectionID, 10, 64)

	return model.PartialRequestedTask{
		Department:        v.Department,
		DEN:               v.DEN,
		NatureOfWork:      v.NatureOfWork,
		Block:             v.Block,
		Location:          v.Location,
		PreferredStartsAt: withSeconds(v.PreferredStartsAt),
		PreferredEndsAt:   withSeconds(v.PreferredEndsAt),
		RequestedDate:     date.Format("2006-01-02"),
		RequestedDuration: duration.Minutes(minutes),
		Priority:          priority,
		SectionID:         sectionID,
	}, nil
}

// withSeconds дополняет время секундами: 8:00 -> 08:00:00
func withSeconds(clock string) string {
	t, err := parseClock(clock)
	if err != nil {
		return clock
	}
	return t.Format("15:04:05")
}

// State - состояние формы
type State int

const (
	StateEditing State = iota
	StateSubmitting
)

func (s State) String() string {
	if s == StateSubmitting {
		return "submitting"
	}
	return "editing"
}

// Requester отправляет заявку на сервер
type Requester interface {
	RequestTask(ctx context.Context, task model.PartialRequestedTask) (*model.RequestedTask, error)
}

// Form - форма заявки: editing -> submitting -> editing.
// Успех сбрасывает форму к значениям по умолчанию, ошибка оставляет введённое для повтора.
type Form struct {
	mu     sync.Mutex
	values Values
	state  State
	now    func() time.Time
}

// New создаёт форму со значениями по умолчанию
func New(now func() time.Time) *Form {
	if now == nil {
		now = time.Now
	}
	return &Form{values: Defaults(now()), now: now}
}

// Values возвращает копию текущих значений
func (f *Form) Values() Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// State возвращает текущее состояние
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Set проверяет и записывает одно поле. Неверное значение не сохраняется.
func (f *Form) Set(key, value string) error {
	if err := ValidateField(key, value); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values.Set(key, strings.TrimSpace(value))
}

// Reset возвращает форму к значениям по умолчанию
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = Defaults(f.now())
	f.state = StateEditing
}

// Submit проверяет форму и отправляет заявку. При ошибке валидации сеть не трогается.
func (f *Form) Submit(ctx context.Context, r Requester) (*model.RequestedTask, error) {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return nil, ErrBusy
	}

	task, err := Normalize(f.values)
	if err != nil {
		f.mu.Unlock()
		return nil, err
	}
	f.state = StateSubmitting
	f.mu.Unlock()

	created, err := r.RequestTask(ctx, task)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateEditing
	if err != nil {
		return nil, fmt.Errorf("request task: %w", err)
	}

	f.values = Defaults(f.now())
	return created, nil
}

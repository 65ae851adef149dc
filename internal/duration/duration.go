package duration

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrFormat - строка не является ISO 8601 длительностью
var ErrFormat = errors.New("invalid duration format")

// FormatError описывает строку, которую не удалось разобрать
type FormatError struct {
	Value  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid ISO 8601 duration %q: %s", e.Value, e.Reason)
}

func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// P[nW][nD][T[nH][nM][nS]], дробная часть допустима только у секунд
var durationRe = regexp.MustCompile(`^P(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:[.,]\d+)?)S)?)?$`)

// Decode разбирает ISO 8601 длительность (PT1H30M) и возвращает количество минут.
// Недостающие часы или минуты считаются нулём, результат = hours*60 + minutes.
// Недели, дни и секунды допускаются грамматикой, но в сумму не входят.
func Decode(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &FormatError{Value: s, Reason: "empty string"}
	}

	m := durationRe.FindStringSubmatch(s)
	if m == nil {
		return 0, &FormatError{Value: s, Reason: "does not match P[nD]T[nH][nM][nS]"}
	}

	// "P" и "PT" без компонент - не длительность
	if m[1] == "" && m[2] == "" && m[3] == "" && m[4] == "" && m[5] == "" {
		return 0, &FormatError{Value: s, Reason: "no components"}
	}
	if strings.HasSuffix(s, "T") {
		return 0, &FormatError{Value: s, Reason: "empty time part"}
	}

	hours, err := component(s, m[3])
	if err != nil {
		return 0, err
	}
	minutes, err := component(s, m[4])
	if err != nil {
		return 0, err
	}

	if hours > (math.MaxInt-minutes)/60 {
		return 0, &FormatError{Value: s, Reason: "value out of range"}
	}

	return hours*60 + minutes, nil
}

func component(s, raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &FormatError{Value: s, Reason: err.Error()}
	}
	return v, nil
}

// Encode возвращает каноническое представление: PT{h}H{m}M без нулевых частей, 0 -> PT0M.
// Отрицательные значения отсекаются формой ещё до вызова; здесь они сводятся к PT0M.
func Encode(minutes int) string {
	if minutes <= 0 {
		return "PT0M"
	}

	hours := minutes / 60
	mins := minutes % 60

	var b strings.Builder
	b.WriteString("PT")
	if hours > 0 {
		b.WriteString(strconv.Itoa(hours))
		b.WriteByte('H')
	}
	if mins > 0 {
		b.WriteString(strconv.Itoa(mins))
		b.WriteByte('M')
	}
	return b.String()
}

// Minutes - длительность в минутах, на проводе сериализуется как ISO 8601 строка
type Minutes int

func (m Minutes) String() string {
	return Encode(int(m))
}

func (m Minutes) MarshalJSON() ([]byte, error) {
	return json.Marshal(Encode(int(m)))
}

func (m *Minutes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &FormatError{Value: string(data), Reason: "not a string"}
	}
	v, err := Decode(s)
	if err != nil {
		return err
	}
	*m = Minutes(v)
	return nil
}

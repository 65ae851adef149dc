package form

// Ключи полей совпадают с JSON именами заявки
const (
	FieldDepartment        = "department"
	FieldDEN               = "den"
	FieldNatureOfWork      = "nature_of_work"
	FieldBlock             = "block"
	FieldLocation          = "location"
	FieldPreferredStartsAt = "preferred_starts_at"
	FieldPreferredEndsAt   = "preferred_ends_at"
	FieldRequestedDate     = "requested_date"
	FieldRequestedDuration = "requested_duration"
	FieldPriority          = "priority"
	FieldSectionID         = "section_id"
)

// Field описывает поле формы в порядке заполнения
type Field struct {
	Key    string // ключ поля
	Struct string // имя поля в Values
	Label  string // подпись для пользователя
	Hint   string // пример ввода
}

// Fields - все поля формы в порядке диалога
var Fields = []Field{
	{Key: FieldDepartment, Struct: "Department", Label: "Отдел", Hint: "Engineering"},
	{Key: FieldDEN, Struct: "DEN", Label: "DEN", Hint: "DEN/North"},
	{Key: FieldNatureOfWork, Struct: "NatureOfWork", Label: "Характер работ", Hint: "Замена рельсов"},
	{Key: FieldBlock, Struct: "Block", Label: "Блок", Hint: "AJR-KLM"},
	{Key: FieldLocation, Struct: "Location", Label: "Место", Hint: "KM 12/4"},
	{Key: FieldPreferredStartsAt, Struct: "PreferredStartsAt", Label: "Желаемое начало", Hint: "08:00"},
	{Key: FieldPreferredEndsAt, Struct: "PreferredEndsAt", Label: "Желаемый конец", Hint: "12:30"},
	{Key: FieldRequestedDate, Struct: "RequestedDate", Label: "Дата", Hint: "2025-03-01 или 01.03.2025"},
	{Key: FieldRequestedDuration, Struct: "RequestedDuration", Label: "Длительность (минуты)", Hint: "90"},
	{Key: FieldPriority, Struct: "Priority", Label: "Приоритет", Hint: "1"},
	{Key: FieldSectionID, Struct: "SectionID", Label: "ID секции", Hint: "4"},
}

// FieldByKey ищет поле по ключу
func FieldByKey(key string) (Field, bool) {
	for _, f := range Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

func fieldByStruct(name string) (Field, bool) {
	for _, f := range Fields {
		if f.Struct == name {
			return f, true
		}
	}
	return Field{}, false
}

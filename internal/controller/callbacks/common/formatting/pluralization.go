package formatting

// plural выбирает форму слова для числа: одна, две-четыре, много
func plural(count int, one, few, many string) string {
	if count%10 == 1 && count%100 != 11 {
		return one
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return few
	}
	return many
}

// PluralizeTasks возвращает правильное склонение слова "заявка"
func PluralizeTasks(count int) string {
	return plural(count, "заявка", "заявки", "заявок")
}

// PluralizeSlots возвращает правильное склонение слова "слот"
func PluralizeSlots(count int) string {
	return plural(count, "слот", "слота", "слотов")
}

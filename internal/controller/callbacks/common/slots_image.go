package common

import (
	"bytes"
	"image/color"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/Freeeeeet/blocks_bot/internal/model"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontStyle определяет стиль шрифта
type FontStyle string

const (
	FontStyleDefault FontStyle = "" // Regular
	FontStyleMedium  FontStyle = "medium"
	FontStyleBold    FontStyle = "bold"
)

// Константы размеров и отступов
const (
	imageWidth       = 1400
	imageHeight      = 900
	headerHeight     = 100
	leftLabelsWidth  = 80
	legendWidth      = 140
	dayPaddingX      = 6
	minSlotHeight    = 8.0
	slotBorderRadius = 6.0
	shadowOffset     = 3.0
	totalDaysInWeek  = 7
	hourPaddingTop   = 1
	hourPaddingBot   = 1
	defaultMinHour   = 0
	defaultMaxHour   = 23
)

// Константы шрифтов
const (
	titleFontSize      = 25.0
	dayFontSize        = 27.0
	hourLabelFontSize  = 18.0
	slotTimeFontSize   = 16.0
	legendItemFontSize = 13.0
)

// Цветовая схема
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 220}
	hourLabelColor   = color.RGBA{110, 115, 120, 200}
	hourLineColor    = color.NRGBA{150, 150, 150, 255}
	todayBgColor     = color.NRGBA{255, 99, 71, 125}
	evenDayColor     = color.NRGBA{240, 240, 240, 255}
	oddDayColor      = color.NRGBA{220, 220, 220, 255}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}

	// Цвет блока зависит от приоритета заявки: 1 - самый срочный
	slotPriorityColors = []color.RGBA{
		{239, 108, 0, 220},   // 1
		{255, 193, 7, 220},   // 2
		{133, 193, 85, 220},  // 3
		{100, 160, 220, 220}, // 4 и ниже
	}
	slotTextColor   = color.RGBA{20, 24, 28, 230}
	slotShadowColor = color.RGBA{0, 0, 0, 20}

	legendTextColor = color.RGBA{90, 95, 100, 220}
	legendItemColor = color.RGBA{70, 74, 78, 220}
)

// weekBounds содержит границы недели
type weekBounds struct {
	start time.Time
	end   time.Time
}

// hourRange содержит диапазон часов для отображения
type hourRange struct {
	start int
	end   int
	total int
}

// blockSlot - слот задачи с разобранным временем
type blockSlot struct {
	taskID    int64
	sectionID int64
	priority  int
	start     time.Time
	end       time.Time
}

var (
	fontsMu     sync.Mutex
	cachedFonts = make(map[FontStyle]*opentype.Font)
)

func fontData(style FontStyle) []byte {
	switch style {
	case FontStyleBold:
		return gobold.TTF
	case FontStyleMedium:
		return gomedium.TTF
	default:
		return goregular.TTF
	}
}

// loadFont загружает шрифт указанного стиля или использует basicfont как fallback
func loadFont(dc *gg.Context, size float64, style ...FontStyle) {
	fontStyle := FontStyleDefault
	if len(style) > 0 {
		fontStyle = style[0]
	}

	fontsMu.Lock()
	parsed, ok := cachedFonts[fontStyle]
	if !ok {
		var err error
		parsed, err = opentype.Parse(fontData(fontStyle))
		if err != nil {
			parsed = nil
		}
		cachedFonts[fontStyle] = parsed
	}
	fontsMu.Unlock()

	if parsed != nil {
		face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			dc.SetFontFace(face)
			return
		}
	}
	// fallback к встроенному шрифту
	dc.SetFontFace(basicfont.Face7x13)
}

// WeekStart возвращает понедельник недели, сдвинутой на offset недель от даты
func WeekStart(date time.Time, offset int) time.Time {
	return normalizeToWeekBounds(date).start.AddDate(0, 0, 7*offset)
}

// GenerateSlotsWeekImage рисует неделю с назначенными задачам слотами.
// Слоты с неразборчивым временем пропускаются, их количество возвращается вторым значением.
func GenerateSlotsWeekImage(weekStart time.Time, tasks []model.ScheduledTask, now time.Time) ([]byte, int, error) {
	week := normalizeToWeekBounds(weekStart)
	today := normalizeToDay(now)
	shouldHighlightToday := isTodayInWeek(today, week)

	slots, skipped := collectSlots(tasks, week)
	slotsByDay := groupSlotsByDay(slots)
	hours := calculateHourRange(slots)

	dc := createCanvas()
	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / totalDaysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, week)
	drawHourLabels(dc, hours, cellHeight)
	drawDaysAndSlots(dc, week, today, shouldHighlightToday, slotsByDay, hours, dayWidth, dayHeight, cellHeight)
	drawCurrentTimeLine(dc, now, shouldHighlightToday, hours, cellHeight, dayWidth)
	drawLegend(dc, dayWidth)

	data, err := encodeImage(dc)
	return data, skipped, err
}

// collectSlots разбирает слоты задач и оставляет попавшие в неделю.
// Слот, переходящий через полночь, обрезается концом дня начала.
func collectSlots(tasks []model.ScheduledTask, week weekBounds) ([]blockSlot, int) {
	var (
		out     []blockSlot
		skipped int
	)
	weekEnd := week.end.AddDate(0, 0, 1)

	for _, task := range tasks {
		for _, slot := range task.Slots {
			start, errStart := slot.Start()
			end, errEnd := slot.End()
			if errStart != nil || errEnd != nil || !end.After(start) {
				skipped++
				continue
			}
			if start.Before(week.start) || !start.Before(weekEnd) {
				continue
			}

			dayEnd := normalizeToDay(start).AddDate(0, 0, 1)
			if end.After(dayEnd) {
				end = dayEnd
			}

			priority := slot.Priority
			if priority == 0 {
				priority = task.Priority
			}

			out = append(out, blockSlot{
				taskID:    task.ID,
				sectionID: slot.SectionID,
				priority:  priority,
				start:     start,
				end:       end,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].start.Before(out[j].start) })
	return out, skipped
}

// normalizeToWeekBounds нормализует дату к границам недели (Пн-Вс)
func normalizeToWeekBounds(date time.Time) weekBounds {
	normalized := normalizeToDay(date)

	daysSinceMonday := int(normalized.Weekday()) - 1
	if normalized.Weekday() == time.Sunday {
		daysSinceMonday = 6
	}

	start := normalized.AddDate(0, 0, -daysSinceMonday)
	end := start.AddDate(0, 0, 6)

	return weekBounds{start: start, end: end}
}

// normalizeToDay нормализует время к началу дня
func normalizeToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// isTodayInWeek проверяет, попадает ли сегодня в отображаемую неделю
func isTodayInWeek(today time.Time, week weekBounds) bool {
	return !today.Before(week.start) && !today.After(week.end)
}

// groupSlotsByDay группирует слоты по дням
func groupSlotsByDay(slots []blockSlot) map[string][]blockSlot {
	slotsByDay := make(map[string][]blockSlot)
	for _, slot := range slots {
		dateKey := slot.start.Format("2006-01-02")
		slotsByDay[dateKey] = append(slotsByDay[dateKey], slot)
	}
	return slotsByDay
}

// calculateHourRange определяет диапазон часов для отображения
func calculateHourRange(slots []blockSlot) hourRange {
	minHour := 24
	maxHour := 0

	for _, slot := range slots {
		startH := slot.start.Hour()
		endH := slot.end.Hour()
		if !isSameDay(slot.start, slot.end) {
			endH = 24
		} else if slot.end.Minute() > 0 {
			endH++
		}
		if startH < minHour {
			minHour = startH
		}
		if endH > maxHour {
			maxHour = endH
		}
	}

	if minHour == 24 {
		minHour = defaultMinHour
		maxHour = defaultMaxHour
	}

	startHour := minHour - hourPaddingTop
	endHour := maxHour + hourPaddingBot
	if startHour < 0 {
		startHour = 0
	}
	if endHour > 23 {
		endHour = 23
	}

	return hourRange{
		start: startHour,
		end:   endHour,
		total: endHour - startHour + 1,
	}
}

// createCanvas создает новый контекст рисования с фоном
func createCanvas() *gg.Context {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	return dc
}

// drawHeader рисует заголовок с названием месяца
func drawHeader(dc *gg.Context, week weekBounds) {
	startMonth := week.start.Month()
	endMonth := week.end.Month()

	title := monthName(startMonth)
	if startMonth != endMonth {
		title += " - " + monthName(endMonth)
	}
	title += " " + strconv.Itoa(week.end.Year())

	loadFont(dc, titleFontSize, FontStyleBold)
	dc.SetColor(textColor)
	w, h := dc.MeasureString(title)
	dc.DrawStringAnchored(title, w/2+10, float64(headerHeight)/8+h/2, 0, 0)
}

// drawHourLabels рисует колонку с часами слева
func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	loadFont(dc, hourLabelFontSize, FontStyleMedium)
	dc.SetColor(hourLabelColor)

	for hIdx := 0; hIdx < hours.total; hIdx++ {
		y := float64(headerHeight) + float64(hIdx)*cellHeight
		dc.DrawStringAnchored(formatHourLabel(hours.start+hIdx), float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

// drawDaysAndSlots рисует все дни недели со слотами
func drawDaysAndSlots(dc *gg.Context, week weekBounds, today time.Time, shouldHighlightToday bool,
	slotsByDay map[string][]blockSlot, hours hourRange, dayWidth, dayHeight int, cellHeight float64) {

	currentDate := week.start

	for dayIndex := 0; dayIndex < totalDaysInWeek; dayIndex++ {
		x := float64(leftLabelsWidth + dayIndex*dayWidth)
		y := float64(headerHeight)

		isToday := shouldHighlightToday && isSameDay(currentDate, today)

		drawDayBackground(dc, x, y, dayWidth, dayHeight, dayIndex, isToday)
		drawDayHeader(dc, currentDate, x, y, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)
		drawSlotsForDay(dc, slotsByDay[currentDate.Format("2006-01-02")], x, y, dayWidth, hours, cellHeight)

		currentDate = currentDate.AddDate(0, 0, 1)
	}
}

// isSameDay проверяет, являются ли две даты одним днем
func isSameDay(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() &&
		date1.Month() == date2.Month() &&
		date1.Day() == date2.Day()
}

// drawDayBackground рисует фон дня
func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int, isToday bool) {
	if isToday {
		dc.SetColor(todayBgColor)
	} else if dayIndex%2 == 0 {
		dc.SetColor(evenDayColor)
	} else {
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()
}

// drawDayHeader рисует название дня недели и дату
func drawDayHeader(dc *gg.Context, date time.Time, x, y float64, dayWidth int) {
	loadFont(dc, dayFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(date.Format("02.01"), x+float64(dayWidth)/2, y, 0.5, -1)
	dc.DrawStringAnchored(weekdayShort(date.Weekday()), x+float64(dayWidth)/2, y, 0.5, -0.2)
}

// drawHourLines рисует горизонтальные линии часов
func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)

	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		hy := y + float64(hIdx)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

// drawSlotsForDay рисует слоты дня. Пересекающиеся слоты делят ширину колонки.
func drawSlotsForDay(dc *gg.Context, slots []blockSlot, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	lanes := assignLanes(slots)
	laneCount := 1
	for _, l := range lanes {
		if l+1 > laneCount {
			laneCount = l + 1
		}
	}

	laneWidth := (float64(dayWidth) - float64(dayPaddingX*2)) / float64(laneCount)
	for i, slot := range slots {
		drawSlot(dc, slot, x+float64(dayPaddingX)+float64(lanes[i])*laneWidth, y, laneWidth, hours, cellHeight)
	}
}

// assignLanes раскладывает пересекающиеся слоты по дорожкам; слоты отсортированы по началу
func assignLanes(slots []blockSlot) []int {
	lanes := make([]int, len(slots))
	var laneEnds []time.Time

	for i, slot := range slots {
		placed := false
		for l, end := range laneEnds {
			if !slot.start.Before(end) {
				lanes[i] = l
				laneEnds[l] = slot.end
				placed = true
				break
			}
		}
		if !placed {
			lanes[i] = len(laneEnds)
			laneEnds = append(laneEnds, slot.end)
		}
	}
	return lanes
}

func hourOf(t, day time.Time) float64 {
	return t.Sub(normalizeToDay(day)).Hours()
}

// drawSlot рисует один слот
func drawSlot(dc *gg.Context, slot blockSlot, x, y, width float64, hours hourRange, cellHeight float64) {
	slotStartHour := hourOf(slot.start, slot.start)
	slotEndHour := hourOf(slot.end, slot.start)

	slotY := y + (slotStartHour-float64(hours.start))*cellHeight
	slotHeight := (slotEndHour - slotStartHour) * cellHeight
	if slotHeight < minSlotHeight {
		slotHeight = minSlotHeight
	}

	fillColor := priorityColor(slot.priority)

	// Тень
	dc.SetColor(slotShadowColor)
	dc.DrawRoundedRectangle(x+shadowOffset, slotY+2+shadowOffset, width-2, slotHeight-4, slotBorderRadius)
	dc.Fill()

	// Основной слот
	dc.SetColor(fillColor)
	dc.DrawRoundedRectangle(x, slotY+2, width-2, slotHeight-4, slotBorderRadius)
	dc.Fill()

	// Рамка
	dc.SetColor(darkenColor(fillColor, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x, slotY+2, width-2, slotHeight-4, slotBorderRadius)
	dc.Stroke()

	loadFont(dc, slotTimeFontSize, FontStyleMedium)
	dc.SetColor(slotTextColor)
	txtX := x + 6
	txtY := slotY + 8 + 10
	dc.DrawStringAnchored(slot.start.Format("15:04"), txtX, txtY, 0, 0)

	// Номер задачи и секция, если хватает места
	if slotHeight > 25 {
		loadFont(dc, slotTimeFontSize-3, FontStyleDefault)
		label := "#" + strconv.FormatInt(slot.taskID, 10) + " · с." + strconv.FormatInt(slot.sectionID, 10)
		dc.DrawStringAnchored(label, txtX, txtY+16, 0, 0)
	}
}

// priorityColor возвращает цвет блока по приоритету
func priorityColor(priority int) color.RGBA {
	idx := priority - 1
	if idx < 0 {
		idx = len(slotPriorityColors) - 1
	}
	if idx >= len(slotPriorityColors) {
		idx = len(slotPriorityColors) - 1
	}
	return slotPriorityColors[idx]
}

// darkenColor затемняет цвет на указанный множитель
func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// drawCurrentTimeLine рисует красную линию текущего времени
func drawCurrentTimeLine(dc *gg.Context, now time.Time, shouldHighlight bool, hours hourRange, cellHeight float64, dayWidth int) {
	if !shouldHighlight {
		return
	}

	currentHour := float64(now.Hour()) + float64(now.Minute())/60.0
	if currentHour < float64(hours.start) || currentHour > float64(hours.end) {
		return
	}

	currentTimeY := float64(headerHeight) + (currentHour-float64(hours.start))*cellHeight
	dc.SetColor(currentTimeColor)
	dc.SetLineWidth(2.0)
	dc.DrawLine(float64(leftLabelsWidth), currentTimeY, float64(leftLabelsWidth+totalDaysInWeek*dayWidth), currentTimeY)
	dc.Stroke()
}

// drawLegend рисует легенду приоритетов справа
func drawLegend(dc *gg.Context, dayWidth int) {
	legendX := float64(leftLabelsWidth + totalDaysInWeek*dayWidth + 10)
	legendY := float64(imageHeight) - 150.0

	loadFont(dc, legendItemFontSize, FontStyleBold)
	dc.SetColor(legendTextColor)
	dc.DrawStringAnchored("Приоритет", legendX, legendY, 0, 0)

	labels := []string{"1", "2", "3", "4+"}

	boxW := 20.0
	boxH := 14.0
	liY := legendY + 16

	for i, label := range labels {
		dc.SetColor(slotPriorityColors[i])
		dc.DrawRoundedRectangle(legendX, liY, boxW, boxH, 3)
		dc.Fill()

		loadFont(dc, legendItemFontSize)
		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(label, legendX+boxW+8, liY+boxH/2+1, 0, 0.2)
		liY += boxH + 12
	}
}

// encodeImage кодирует изображение в PNG
func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatHourLabel(h int) string {
	if h < 10 {
		return "0" + strconv.Itoa(h) + ":00"
	}
	return strconv.Itoa(h) + ":00"
}

// короткие дни недели
func weekdayShort(weekday time.Weekday) string {
	return [...]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}[weekday]
}

// названия месяцев на русском
func monthName(month time.Month) string {
	return [...]string{"", "Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
		"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь"}[month]
}

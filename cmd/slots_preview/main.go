package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Freeeeeet/blocks_bot/internal/api"
	"github.com/Freeeeeet/blocks_bot/internal/app"
	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/blocks_bot/internal/model"
)

// Рисует картинку недели со слотами в файл.
// С -api берёт запланированные задачи с сервера, иначе рисует тестовые данные.
func main() {
	apiURL := flag.String("api", "", "базовый URL сервера планирования")
	weekOffset := flag.Int("week", 0, "сдвиг недели от текущей")
	out := flag.String("out", "week.png", "куда сохранить PNG")
	flag.Parse()

	logger := app.NewLogger("development")
	defer logger.Sync()

	now := time.Now()
	weekStart := common.WeekStart(now, *weekOffset)

	var tasks []model.ScheduledTask
	if *apiURL != "" {
		client, err := api.NewClient(*apiURL, &http.Client{Timeout: 30 * time.Second}, logger)
		if err != nil {
			fmt.Printf("Ошибка создания клиента: %v\n", err)
			os.Exit(1)
		}

		tasks, err = client.GetScheduledTasks(context.Background())
		if err != nil {
			fmt.Printf("Ошибка загрузки задач: %v\n", err)
			os.Exit(1)
		}
	} else {
		tasks = sampleTasks(weekStart)
	}

	imageData, skipped, err := common.GenerateSlotsWeekImage(weekStart, tasks, now)
	if err != nil {
		fmt.Printf("Ошибка генерации изображения: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, imageData, 0644); err != nil {
		fmt.Printf("Ошибка сохранения файла: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Изображение успешно сохранено в %s\n", *out)
	fmt.Printf("📅 Период: %s - %s\n", weekStart.Format("02.01.2006"), weekStart.AddDate(0, 0, 6).Format("02.01.2006"))
	fmt.Printf("📊 Задач: %d, пропущено слотов: %d\n", len(tasks), skipped)
}

// sampleTasks - задачи с перекрывающимися слотами и слотом через полночь
func sampleTasks(weekStart time.Time) []model.ScheduledTask {
	slot := func(id int64, day, fromHour, toHour, priority int) model.Slot {
		start := weekStart.AddDate(0, 0, day).Add(time.Duration(fromHour) * time.Hour)
		end := weekStart.AddDate(0, 0, day).Add(time.Duration(toHour) * time.Hour)
		return model.Slot{
			ID:        id,
			StartsAt:  start.Format("2006-01-02T15:04:05"),
			EndsAt:    end.Format("2006-01-02T15:04:05"),
			Priority:  priority,
			SectionID: 4,
		}
	}

	task := func(id int64, priority int, block string, slots ...model.Slot) model.ScheduledTask {
		t := model.ScheduledTask{Slots: slots}
		t.ID = id
		t.Priority = priority
		t.Block = block
		t.Department = "Engineering"
		for i := range t.Slots {
			taskID := id
			t.Slots[i].TaskID = &taskID
		}
		return t
	}

	return []model.ScheduledTask{
		task(1, 1, "AJR-KLM", slot(1, 0, 9, 11, 1), slot(2, 2, 14, 16, 1)),
		task(2, 2, "KLM-PNV", slot(3, 0, 10, 12, 2)),
		task(3, 3, "PNV-TRV", slot(4, 3, 22, 26, 3)),
		task(4, 5, "TRV-ERS", slot(5, 4, 6, 8, 5), model.Slot{ID: 6, StartsAt: "не время", EndsAt: "не время"}),
	}
}

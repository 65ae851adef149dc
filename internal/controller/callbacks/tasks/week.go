package tasks

import (
	"bytes"
	"fmt"
	"time"

	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/blocks_bot/internal/controller/callbacks/common/keyboard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// handleWeek показывает картинку недели со слотами из текущего снимка таблицы
func handleWeek(hc *common.HandlerContext, args []string) {
	offset := 0
	if len(args) > 0 {
		n, err := common.ParseIntPart(args[0])
		if err != nil {
			common.HandleError(hc, err, "week_image")
			return
		}
		offset = n
	}

	sess := hc.Session()
	sess.SetWeekOffset(offset)

	now := time.Now()
	weekStart := common.WeekStart(now, offset)
	weekEnd := weekStart.AddDate(0, 0, 6)
	rows := sess.Scheduled.Rows()

	caption := fmt.Sprintf("%s\n\n🖼 Неделя %s - %s · %d %s",
		common.RouteBreadcrumbs(common.PathScheduled, "Неделя"),
		weekStart.Format("02.01"),
		weekEnd.Format("02.01.2006"),
		len(rows),
		formatting.PluralizeTasks(len(rows)),
	)

	kb := keyboard.NewBuilder().
		Row(keyboard.WeekPagination("tbl:scheduled:week:", offset)...).
		AddBackButton("tbl:scheduled:view").
		Build()

	imageData, skipped, err := common.GenerateSlotsWeekImage(weekStart, rows, now)
	if err != nil {
		hc.Handler.Logger.Error("Failed to generate week image", zap.Error(err))
		render(hc, func() (string, *models.InlineKeyboardMarkup) {
			return caption + "\n\n❌ Не удалось построить картинку", kb
		})
		hc.Answer("")
		return
	}
	if skipped > 0 {
		caption += fmt.Sprintf("\n⚠️ Не показано %d %s с неверным временем", skipped, formatting.PluralizeSlots(skipped))
	}

	_, err = hc.Bot.SendPhoto(hc.Ctx, &bot.SendPhotoParams{
		ChatID:      hc.ChatID,
		Photo:       &models.InputFileUpload{Filename: "week.png", Data: bytes.NewReader(imageData)},
		Caption:     caption,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: kb,
	})
	if err != nil {
		common.HandleError(hc, err, "week_image_send")
		return
	}

	// Удаляем старое сообщение
	if err := hc.DeleteMessage(); err != nil {
		hc.Handler.Logger.Debug("Failed to delete previous message", zap.Error(err))
	}
	hc.Answer("")
}

package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"

	"lifeos/internal/model"
	"lifeos/internal/repository"
	"lifeos/internal/service"
)

type conversationStage int

const (
	stageNone conversationStage = iota
	stageHabitName
	stageHabitCategory
	stageGoalTitle
	stageGoalDescription
	stageGoalCategory
	stagePlanTheme
	stagePlanFocus
	stagePlanDay
)

const (
	cbDayPrefix   = "day:"
	cbTaskPrefix  = "task:"
	cbHabitPrefix = "habit:"
	cbWeekPrefix  = "week:"
)

const (
	btnSkip         = "⏭️ Skip"
	btnCancelDialog = "⏪ Cancel input"

	menuLabelToday   = "📅 Today"
	menuLabelHabits  = "🔥 Habits"
	menuLabelGoals   = "🎯 Goals"
	menuLabelWeek    = "🗓 Week"
	menuLabelInsight = "✨ Insight"
	menuLabelReport  = "📊 Report"
)

var dayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

type planDraft struct {
	date     model.DateKey
	fields   service.WeekFields
	dayIndex int
}

type conversationState struct {
	stage     conversationStage
	habitName string
	goalTitle string
	goalDesc  string
	plan      planDraft
}

// Bot aggregates the Telegram API with the tracker services.
type Bot struct {
	api           *tgbotapi.BotAPI
	userRepo      *repository.UserRepository
	noteRepo      *repository.NoteRepository
	taskSvc       *service.TaskService
	habitSvc      *service.HabitService
	goalSvc       *service.GoalService
	planSvc       *service.PlanService
	wellbeingSvc  *service.WellbeingService
	insightSvc    *service.InsightService
	reportSvc     *service.ReportService
	exportSvc     *service.ExportService
	conversations map[int64]*conversationState
	mu            sync.Mutex
}

type Deps struct {
	UserRepo  *repository.UserRepository
	NoteRepo  *repository.NoteRepository
	Tasks     *service.TaskService
	Habits    *service.HabitService
	Goals     *service.GoalService
	Plans     *service.PlanService
	Wellbeing *service.WellbeingService
	Insights  *service.InsightService
	Reports   *service.ReportService
	Exports   *service.ExportService
}

func New(token string, deps Deps) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	return &Bot{
		api:           api,
		userRepo:      deps.UserRepo,
		noteRepo:      deps.NoteRepo,
		taskSvc:       deps.Tasks,
		habitSvc:      deps.Habits,
		goalSvc:       deps.Goals,
		planSvc:       deps.Plans,
		wellbeingSvc:  deps.Wellbeing,
		insightSvc:    deps.Insights,
		reportSvc:     deps.Reports,
		exportSvc:     deps.Exports,
		conversations: make(map[int64]*conversationState),
	}, nil
}

// Start begins polling updates until ctx is cancelled. Updates are consumed
// sequentially, which serializes a session's mutations: a second tap cannot
// race the first one's store round trip.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				log.Printf("handle callback: %v", err)
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				log.Printf("handle message: %v", err)
			}
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if !msg.IsCommand() && isCancelDialogInput(msg.Text) {
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Input cancelled.")
	}

	if !msg.IsCommand() {
		if handled, err := b.handleMenuAlias(ctx, msg); handled {
			return err
		}
	}

	if msg.IsCommand() {
		log.Printf("[info] command from %d: /%s %s", msg.From.ID, msg.Command(), msg.CommandArguments())
		return b.handleCommand(ctx, msg)
	}

	if b.hasConversation(msg.From.ID) {
		return b.handleConversation(ctx, msg)
	}

	return b.sendText(msg.Chat.ID, "I didn't catch that. Try /today for your plan or /help for all commands.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "help":
		return b.handleHelp(msg)
	case "today":
		return b.handleToday(ctx, msg)
	case "rename":
		return b.handleRename(ctx, msg)
	case "habits":
		return b.handleHabits(ctx, msg)
	case "newhabit":
		return b.startNewHabitConversation(ctx, msg)
	case "delhabit":
		return b.handleDeleteHabit(ctx, msg)
	case "goals":
		return b.handleGoals(ctx, msg)
	case "newgoal":
		return b.startNewGoalConversation(ctx, msg)
	case "progress":
		return b.handleProgress(ctx, msg)
	case "dropgoal":
		return b.handleDropGoal(ctx, msg)
	case "week":
		return b.handleWeek(ctx, msg)
	case "plan":
		return b.startPlanConversation(ctx, msg)
	case "mood":
		return b.handleMood(ctx, msg)
	case "gratitude":
		return b.handleGratitude(ctx, msg)
	case "health":
		return b.handleHealth(ctx, msg)
	case "note":
		return b.handleNote(ctx, msg)
	case "insight":
		return b.handleInsight(ctx, msg)
	case "report":
		return b.handleReport(ctx, msg)
	case "export":
		return b.handleExport(ctx, msg)
	case "cancel":
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Input cancelled.")
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. See /help.")
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}

	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "there"
	}

	text := fmt.Sprintf(
		"👋 Hi %s!\n<b>I'm your Life OS: time-blocked days, habit streaks, 90-day goals.</b>\n\nCommands:\n"+
			"• /today — today's time blocks (tap to toggle)\n"+
			"• /habits — habits &amp; streaks\n"+
			"• /goals — 90-day goals\n"+
			"• /week — weekly plan\n"+
			"• /insight — daily motivation\n"+
			"• /report — full daily report\n"+
			"• /help — everything else",
		escape(name),
	)

	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	text := "ℹ️ <b>Commands</b>\n" +
		"• /today [YYYY-MM-DD] — day view, tap blocks to toggle\n" +
		"• /rename &lt;id&gt; &lt;title&gt; — rename a block\n" +
		"• /habits — toggle today's habit check-ins\n" +
		"• /newhabit — add a habit · /delhabit &lt;id&gt; — retire one\n" +
		"• /goals — list goals · /newgoal — add one\n" +
		"• /progress &lt;id&gt; &lt;0-100&gt; — set goal progress\n" +
		"• /dropgoal &lt;id&gt; — archive a goal\n" +
		"• /week [YYYY-MM-DD] — weekly plan · /plan — edit it\n" +
		"• /mood &lt;1-10&gt; [energy 1-10] — log mood\n" +
		"• /gratitude a; b; c — log gratitude items\n" +
		"• /health &lt;sleep hours&gt; [water ml] — log health\n" +
		"• /note &lt;text&gt; — quick note\n" +
		"• /insight — daily motivation · /insight new — regenerate\n" +
		"• /report — daily report · /export — download your data\n" +
		"• /cancel — abort the current input"
	return b.sendText(msg.Chat.ID, text)
}

// --- day view -------------------------------------------------------------

func (b *Bot) handleToday(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	date := model.Today()
	if args := strings.TrimSpace(msg.CommandArguments()); args != "" {
		parsed, err := model.ParseDateKey(args)
		if err != nil {
			return b.sendText(msg.Chat.ID, "Use /today or /today YYYY-MM-DD.")
		}
		date = parsed
	}

	return b.sendDayView(ctx, msg.Chat.ID, user, date)
}

func (b *Bot) sendDayView(ctx context.Context, chatID int64, user *model.User, date model.DateKey) error {
	tasks, err := b.taskSvc.TasksForDay(ctx, user, date)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Couldn't load the day: %s", escape(err.Error())))
	}

	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("📅 <b>%s</b>\n", date.Format("Mon, Jan 2 2006")))
	builder.WriteString(fmt.Sprintf("%d of %d blocks done\n\n", completed, len(tasks)))
	builder.WriteString("Tap a block to toggle it.\n")

	var buttons [][]tgbotapi.InlineKeyboardButton
	for _, task := range tasks {
		icon := "⬜"
		if task.Completed {
			icon = "✅"
		}
		label := fmt.Sprintf("%s %s %s", icon, task.TimeSlot, shortTitle(task.Title, 24))
		buttons = append(buttons, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(label, cbTaskPrefix+strconv.FormatUint(uint64(task.ID), 10)),
		})
	}
	buttons = append(buttons, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("◀️", cbDayPrefix+date.AddDays(-1).String()),
		tgbotapi.NewInlineKeyboardButtonData("Today", cbDayPrefix+model.Today().String()),
		tgbotapi.NewInlineKeyboardButtonData("▶️", cbDayPrefix+date.AddDays(1).String()),
	})

	out := tgbotapi.NewMessage(chatID, strings.TrimSpace(builder.String()))
	out.ParseMode = tgbotapi.ModeHTML
	out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	_, err = b.api.Send(out)
	return err
}

func (b *Bot) handleRename(ctx context.Context, msg *tgbotapi.Message) error {
	args := strings.SplitN(strings.TrimSpace(msg.CommandArguments()), " ", 2)
	if len(args) != 2 {
		return b.sendText(msg.Chat.ID, "Usage: /rename <block id> <new title>")
	}
	id, ok := parseIDArg(args[0])
	if !ok {
		return b.sendText(msg.Chat.ID, "Block id must be a number. Block ids show on /export; /today buttons toggle directly.")
	}

	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	task, err := b.taskSvc.RenameTask(ctx, user, id, args[1])
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return b.sendText(msg.Chat.ID, "Block not found.")
		}
		return b.replyServiceError(msg.Chat.ID, "rename the block", err)
	}
	return b.sendDayView(ctx, msg.Chat.ID, user, task.TaskDate)
}

// --- habits ---------------------------------------------------------------

func (b *Bot) handleHabits(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	return b.sendHabitView(ctx, msg.Chat.ID, user)
}

func (b *Bot) sendHabitView(ctx context.Context, chatID int64, user *model.User) error {
	habits, err := b.habitSvc.ListActive(ctx, user)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Couldn't load habits: %s", escape(err.Error())))
	}
	if len(habits) == 0 {
		return b.sendText(chatID, "No habits yet. Add one with /newhabit.")
	}

	today := model.Today()
	doneToday, err := b.habitSvc.CompletionsOn(ctx, user, today)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Couldn't load check-ins: %s", escape(err.Error())))
	}

	var builder strings.Builder
	builder.WriteString("🔥 <b>Habits &amp; Streaks</b>\n")
	builder.WriteString(fmt.Sprintf("%d of %d done today. Tap to toggle.\n\n", len(doneToday), len(habits)))

	var buttons [][]tgbotapi.InlineKeyboardButton
	for _, habit := range habits {
		mark := "⬜"
		if _, ok := doneToday[habit.ID]; ok {
			mark = "✅"
		}
		builder.WriteString(fmt.Sprintf("%s <b>#%d</b> %s <i>(%s)</i> · 🔥 %d · 🏆 %d\n",
			mark, habit.ID, escape(habit.Name), escape(habit.Category),
			habit.CurrentStreak, habit.BestStreak))
		buttons = append(buttons, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s %s", mark, shortTitle(habit.Name, 28)),
				cbHabitPrefix+strconv.FormatUint(uint64(habit.ID), 10),
			),
		})
	}

	out := tgbotapi.NewMessage(chatID, strings.TrimSpace(builder.String()))
	out.ParseMode = tgbotapi.ModeHTML
	out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	_, err = b.api.Send(out)
	return err
}

func (b *Bot) startNewHabitConversation(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}
	b.setConversation(msg.From.ID, &conversationState{stage: stageHabitName})
	return b.sendWithReplyMarkup(msg.Chat.ID, "🆕 New habit.\n<b>Step 1:</b> what's it called?", cancelKeyboard())
}

func (b *Bot) handleDeleteHabit(ctx context.Context, msg *tgbotapi.Message) error {
	id, ok := parseIDArg(msg.CommandArguments())
	if !ok {
		return b.sendText(msg.Chat.ID, "Give me a habit id: /delhabit 3")
	}
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	if err := b.habitSvc.Deactivate(ctx, user, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return b.sendText(msg.Chat.ID, "Habit not found.")
		}
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Couldn't retire the habit: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, "🗑 Habit retired. Its history is kept.")
}

// --- goals ----------------------------------------------------------------

func (b *Bot) handleGoals(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	goals, err := b.goalSvc.ListActive(ctx, user)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Couldn't load goals: %s", escape(err.Error())))
	}
	if len(goals) == 0 {
		return b.sendText(msg.Chat.ID, "No active goals. Start one with /newgoal.")
	}

	var builder strings.Builder
	builder.WriteString("🎯 <b>90-Day Goals</b>\n\n")
	for _, goal := range goals {
		marker := "•"
		if goal.IsPrimary {
			marker = "⭐"
		}
		builder.WriteString(fmt.Sprintf("%s <b>#%d %s</b> <i>(%s)</i>\n", marker, goal.ID, escape(goal.Title), escape(goal.Category)))
		builder.WriteString(fmt.Sprintf("   %s %d%% · target %s\n", progressBar(goal.ProgressPercentage), goal.ProgressPercentage, goal.TargetDate))
		if goal.Description != "" {
			builder.WriteString(fmt.Sprintf("   📝 %s\n", escape(goal.Description)))
		}
	}
	builder.WriteString("\nUpdate with /progress &lt;id&gt; &lt;0-100&gt;, archive with /dropgoal &lt;id&gt;.")

	return b.sendText(msg.Chat.ID, strings.TrimSpace(builder.String()))
}

func (b *Bot) startNewGoalConversation(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}
	b.setConversation(msg.From.ID, &conversationState{stage: stageGoalTitle})
	return b.sendWithReplyMarkup(msg.Chat.ID, "🆕 New 90-day goal.\n<b>Step 1:</b> what do you want to achieve?", cancelKeyboard())
}

func (b *Bot) handleProgress(ctx context.Context, msg *tgbotapi.Message) error {
	fields := strings.Fields(msg.CommandArguments())
	if len(fields) != 2 {
		return b.sendText(msg.Chat.ID, "Usage: /progress <goal id> <0-100>")
	}
	id, ok := parseIDArg(fields[0])
	if !ok {
		return b.sendText(msg.Chat.ID, "Goal id must be a number.")
	}
	progress, err := strconv.Atoi(fields[1])
	if err != nil {
		return b.sendText(msg.Chat.ID, "Progress must be a number 0-100.")
	}

	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	goal, err := b.goalSvc.UpdateProgress(ctx, user, id, progress)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return b.sendText(msg.Chat.ID, "Goal not found.")
		}
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Couldn't update progress: %s", escape(err.Error())))
	}

	return b.sendText(msg.Chat.ID, fmt.Sprintf("🎯 «%s» is now at %s %d%%.",
		escape(goal.Title), progressBar(goal.ProgressPercentage), goal.ProgressPercentage))
}

func (b *Bot) handleDropGoal(ctx context.Context, msg *tgbotapi.Message) error {
	id, ok := parseIDArg(msg.CommandArguments())
	if !ok {
		return b.sendText(msg.Chat.ID, "Give me a goal id: /dropgoal 2")
	}
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	if err := b.goalSvc.Archive(ctx, user, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return b.sendText(msg.Chat.ID, "Goal not found.")
		}
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Couldn't archive the goal: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, "🗂 Goal archived.")
}

// --- weekly plan ----------------------------------------------------------

func (b *Bot) handleWeek(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	date := model.Today()
	if args := strings.TrimSpace(msg.CommandArguments()); args != "" {
		parsed, err := model.ParseDateKey(args)
		if err != nil {
			return b.sendText(msg.Chat.ID, "Use /week or /week YYYY-MM-DD.")
		}
		date = parsed
	}

	return b.sendWeekView(ctx, msg.Chat.ID, user, date)
}

func (b *Bot) sendWeekView(ctx context.Context, chatID int64, user *model.User, date model.DateKey) error {
	plan, err := b.planSvc.WeekPlan(ctx, user, date)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Couldn't load the week: %s", escape(err.Error())))
	}

	weekStart := plan.WeekStartDate
	weekEnd := weekStart.AddDays(6)

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("🗓 <b>Week %s – %s</b>\n", weekStart.Format("Jan 2"), weekEnd.Format("Jan 2")))
	if plan.WeekTheme != "" {
		builder.WriteString(fmt.Sprintf("🎯 Theme: %s\n", escape(plan.WeekTheme)))
	}
	if plan.FocusArea != "" {
		builder.WriteString(fmt.Sprintf("🔍 Focus: %s\n", escape(plan.FocusArea)))
	}
	builder.WriteByte('\n')

	days := plan.DayPlans()
	for i, name := range dayNames {
		entry := days[i]
		if entry == "" {
			entry = "—"
		}
		builder.WriteString(fmt.Sprintf("<b>%s</b>: %s\n", name, escape(entry)))
	}
	builder.WriteString("\nEdit with /plan.")

	buttons := [][]tgbotapi.InlineKeyboardButton{{
		tgbotapi.NewInlineKeyboardButtonData("◀️", cbWeekPrefix+weekStart.AddDays(-7).String()),
		tgbotapi.NewInlineKeyboardButtonData("This week", cbWeekPrefix+model.Today().String()),
		tgbotapi.NewInlineKeyboardButtonData("▶️", cbWeekPrefix+weekStart.AddDays(7).String()),
	}}

	out := tgbotapi.NewMessage(chatID, strings.TrimSpace(builder.String()))
	out.ParseMode = tgbotapi.ModeHTML
	out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	_, err = b.api.Send(out)
	return err
}

func (b *Bot) startPlanConversation(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	date := model.Today()
	plan, err := b.planSvc.WeekPlan(ctx, user, date)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Couldn't load the week: %s", escape(err.Error())))
	}

	state := &conversationState{
		stage: stagePlanTheme,
		plan: planDraft{
			date: date,
			fields: service.WeekFields{
				Theme: plan.WeekTheme,
				Focus: plan.FocusArea,
				Days:  plan.DayPlans(),
			},
		},
	}
	b.setConversation(msg.From.ID, state)
	return b.sendWithReplyMarkup(msg.Chat.ID,
		fmt.Sprintf("🗓 Planning week of %s.\n<b>Step 1:</b> week theme? (Skip keeps «%s»)",
			plan.WeekStartDate, escape(orDash(plan.WeekTheme))),
		skipKeyboard())
}

// --- wellbeing ------------------------------------------------------------

func (b *Bot) handleMood(ctx context.Context, msg *tgbotapi.Message) error {
	fields := strings.Fields(msg.CommandArguments())
	if len(fields) == 0 {
		return b.sendText(msg.Chat.ID, "Usage: /mood <1-10> [energy 1-10]")
	}
	mood, err := strconv.Atoi(fields[0])
	if err != nil {
		return b.sendText(msg.Chat.ID, "Mood must be a number 1-10.")
	}
	energy := mood
	if len(fields) > 1 {
		if energy, err = strconv.Atoi(fields[1]); err != nil {
			return b.sendText(msg.Chat.ID, "Energy must be a number 1-10.")
		}
	}

	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	entry, err := b.wellbeingSvc.SaveMood(ctx, user, model.Today(), mood, energy)
	if err != nil {
		return b.replyServiceError(msg.Chat.ID, "save your mood", err)
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("🙂 Logged: mood %d/10, energy %d/10. Saving again today overwrites it.",
		entry.MoodScore, entry.EnergyLevel))
}

func (b *Bot) handleGratitude(ctx context.Context, msg *tgbotapi.Message) error {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		return b.sendText(msg.Chat.ID, "List what you're grateful for, separated by ;\nExample: /gratitude coffee; a good walk; shipped the feature")
	}

	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	entry, err := b.wellbeingSvc.SaveGratitude(ctx, user, model.Today(), strings.Split(args, ";"))
	if err != nil {
		return b.replyServiceError(msg.Chat.ID, "save your gratitude list", err)
	}

	var items []string
	_ = json.Unmarshal(entry.Items, &items)
	return b.sendText(msg.Chat.ID, fmt.Sprintf("🙏 Saved %d gratitude item(s) for today.", len(items)))
}

func (b *Bot) handleHealth(ctx context.Context, msg *tgbotapi.Message) error {
	fields := strings.Fields(msg.CommandArguments())
	if len(fields) == 0 {
		return b.sendText(msg.Chat.ID, "Usage: /health <sleep hours> [water ml]\nExample: /health 7.5 2000")
	}

	sleep, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return b.sendText(msg.Chat.ID, "Sleep hours must be a number, e.g. 7.5")
	}
	var waterPtr *int
	if len(fields) > 1 {
		water, err := strconv.Atoi(fields[1])
		if err != nil {
			return b.sendText(msg.Chat.ID, "Water must be a whole number of ml.")
		}
		waterPtr = &water
	}

	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	if _, err := b.wellbeingSvc.SaveHealth(ctx, user, model.Today(), &sleep, waterPtr); err != nil {
		return b.replyServiceError(msg.Chat.ID, "save your health metrics", err)
	}
	return b.sendText(msg.Chat.ID, "🩺 Health metrics saved for today.")
}

func (b *Bot) handleNote(ctx context.Context, msg *tgbotapi.Message) error {
	content := strings.TrimSpace(msg.CommandArguments())
	if content == "" {
		return b.sendText(msg.Chat.ID, "Usage: /note <text>")
	}
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	if err := b.noteRepo.Create(ctx, &model.QuickNote{UserID: user.ID, Content: content}); err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Couldn't save the note: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, "📝 Noted.")
}

// --- insight & report -----------------------------------------------------

func (b *Bot) handleInsight(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	today := model.Today()
	if strings.EqualFold(strings.TrimSpace(msg.CommandArguments()), "new") {
		row, err := b.insightSvc.Regenerate(ctx, user, today)
		if err != nil {
			return b.sendText(msg.Chat.ID, fmt.Sprintf("Couldn't regenerate the insight: %s", escape(err.Error())))
		}
		return b.sendText(msg.Chat.ID, fmt.Sprintf("✨ <b>Daily Motivation</b> (fresh)\n\n%s", escape(row.Content)))
	}

	row, cached, err := b.insightSvc.DailyMotivation(ctx, user, today)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Couldn't fetch the insight: %s", escape(err.Error())))
	}
	suffix := ""
	if cached {
		suffix = "\n\n<i>Cached for today — /insight new regenerates.</i>"
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("✨ <b>Daily Motivation</b>\n\n%s%s", escape(row.Content), suffix))
}

func (b *Bot) handleReport(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	text, err := b.reportSvc.DailySummary(ctx, user, time.Now())
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Couldn't build the report: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleExport(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	payload, err := b.exportSvc.Export(ctx, user)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Couldn't build the export: %s", escape(err.Error())))
	}

	doc := tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("lifeos-export-%s.json", model.Today()),
		Bytes: payload,
	})
	doc.Caption = "📦 Your full data export."
	_, err = b.api.Send(doc)
	return err
}

// SendDailyReports pushes the morning summary to every known user.
func (b *Bot) SendDailyReports(ctx context.Context) error {
	users, err := b.userRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	for _, user := range users {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		text, err := b.reportSvc.DailySummary(ctx, &user, now)
		if err != nil {
			log.Printf("build summary for user %d: %v", user.TelegramID, err)
			continue
		}
		if err := b.sendText(user.TelegramID, text); err != nil {
			log.Printf("send summary to %d: %v", user.TelegramID, err)
		}
	}
	return nil
}

// --- conversations --------------------------------------------------------

func (b *Bot) handleConversation(ctx context.Context, msg *tgbotapi.Message) error {
	state := b.getConversation(msg.From.ID)
	if state == nil {
		return nil
	}

	text := strings.TrimSpace(msg.Text)
	switch state.stage {
	case stageHabitName:
		state.habitName = text
		state.stage = stageHabitCategory
		return b.sendWithReplyMarkup(msg.Chat.ID, "🏷 Pick a category or type your own (Skip means «general»).", habitCategoryKeyboard())
	case stageHabitCategory:
		category := ""
		if !isSkipInput(text) {
			category = text
		}
		err := b.finishHabitCreation(ctx, msg.From, state.habitName, category, msg.Chat.ID)
		b.clearConversation(msg.From.ID)
		return err
	case stageGoalTitle:
		state.goalTitle = text
		state.stage = stageGoalDescription
		return b.sendWithReplyMarkup(msg.Chat.ID, "✏️ Add a short description (or Skip).", skipKeyboard())
	case stageGoalDescription:
		if !isSkipInput(text) {
			state.goalDesc = text
		}
		state.stage = stageGoalCategory
		return b.sendWithReplyMarkup(msg.Chat.ID, "🏷 Which area is this goal in?", goalCategoryKeyboard())
	case stageGoalCategory:
		err := b.finishGoalCreation(ctx, msg.From, state, text, msg.Chat.ID)
		b.clearConversation(msg.From.ID)
		return err
	case stagePlanTheme:
		if !isSkipInput(text) {
			state.plan.fields.Theme = text
		}
		state.stage = stagePlanFocus
		return b.sendWithReplyMarkup(msg.Chat.ID,
			fmt.Sprintf("🔍 Focus area? (Skip keeps «%s»)", escape(orDash(state.plan.fields.Focus))),
			skipKeyboard())
	case stagePlanFocus:
		if !isSkipInput(text) {
			state.plan.fields.Focus = text
		}
		state.stage = stagePlanDay
		state.plan.dayIndex = 0
		return b.askPlanDay(msg.Chat.ID, state)
	case stagePlanDay:
		if !isSkipInput(text) {
			state.plan.fields.Days[state.plan.dayIndex] = text
		}
		state.plan.dayIndex++
		if state.plan.dayIndex < len(dayNames) {
			return b.askPlanDay(msg.Chat.ID, state)
		}
		err := b.finishPlanSave(ctx, msg.From, state, msg.Chat.ID)
		b.clearConversation(msg.From.ID)
		return err
	default:
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "Input reset. Try again from the menu.")
	}
}

func (b *Bot) askPlanDay(chatID int64, state *conversationState) error {
	i := state.plan.dayIndex
	return b.sendWithReplyMarkup(chatID,
		fmt.Sprintf("📆 Plan for <b>%s</b>? (Skip keeps «%s»)", dayNames[i], escape(orDash(state.plan.fields.Days[i]))),
		skipKeyboard())
}

func (b *Bot) finishHabitCreation(ctx context.Context, from *tgbotapi.User, name, category string, chatID int64) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}
	habit, err := b.habitSvc.CreateHabit(ctx, user, name, category)
	if err != nil {
		return b.replyServiceError(chatID, "save the habit", err)
	}
	log.Printf("[info] habit created id=%d user=%d", habit.ID, user.ID)
	if err := b.sendTextWithRemove(chatID, fmt.Sprintf("✅ Habit «%s» added. Check it off on /habits.", escape(habit.Name))); err != nil {
		return err
	}
	return b.sendHabitView(ctx, chatID, user)
}

func (b *Bot) finishGoalCreation(ctx context.Context, from *tgbotapi.User, state *conversationState, category string, chatID int64) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}
	goal, err := b.goalSvc.CreateGoal(ctx, user, state.goalTitle, state.goalDesc, category)
	if err != nil {
		return b.replyServiceError(chatID, "save the goal", err)
	}
	log.Printf("[info] goal created id=%d user=%d primary=%t", goal.ID, user.ID, goal.IsPrimary)
	return b.sendTextWithRemove(chatID, fmt.Sprintf("🎯 Goal «%s» set. Target date: %s.", escape(goal.Title), goal.TargetDate))
}

func (b *Bot) finishPlanSave(ctx context.Context, from *tgbotapi.User, state *conversationState, chatID int64) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}
	plan, err := b.planSvc.SaveWeek(ctx, user, state.plan.date, state.plan.fields)
	if err != nil {
		return b.replyServiceError(chatID, "save the weekly plan", err)
	}
	log.Printf("[info] weekly plan saved user=%d week=%s", user.ID, plan.WeekStartDate)
	if err := b.sendTextWithRemove(chatID, "💾 Weekly plan saved."); err != nil {
		return err
	}
	return b.sendWeekView(ctx, chatID, user, state.plan.date)
}

// --- callbacks ------------------------------------------------------------

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil {
		return nil
	}

	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Printf("callback ack: %v", err)
	}

	data := cb.Data
	chatID := cb.Message.Chat.ID

	user, err := b.ensureUser(ctx, cb.From)
	if err != nil {
		return err
	}

	switch {
	case strings.HasPrefix(data, cbDayPrefix):
		date, err := model.ParseDateKey(strings.TrimPrefix(data, cbDayPrefix))
		if err != nil {
			return nil
		}
		return b.sendDayView(ctx, chatID, user, date)
	case strings.HasPrefix(data, cbWeekPrefix):
		date, err := model.ParseDateKey(strings.TrimPrefix(data, cbWeekPrefix))
		if err != nil {
			return nil
		}
		return b.sendWeekView(ctx, chatID, user, date)
	case strings.HasPrefix(data, cbTaskPrefix):
		taskID, ok := parseIDArg(strings.TrimPrefix(data, cbTaskPrefix))
		if !ok {
			return nil
		}
		task, err := b.taskSvc.ToggleTask(ctx, user, taskID, time.Now())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return b.sendText(chatID, "That block is gone. /today refreshes the view.")
			}
			return b.sendText(chatID, fmt.Sprintf("Couldn't toggle the block: %s", escape(err.Error())))
		}
		log.Printf("[info] task toggled id=%d user=%d completed=%t", task.ID, user.ID, task.Completed)
		return b.sendDayView(ctx, chatID, user, task.TaskDate)
	case strings.HasPrefix(data, cbHabitPrefix):
		habitID, ok := parseIDArg(strings.TrimPrefix(data, cbHabitPrefix))
		if !ok {
			return nil
		}
		habit, done, err := b.habitSvc.ToggleCompletion(ctx, user, habitID, model.Today())
		if err != nil {
			if errors.Is(err, service.ErrStreakInconsistent) {
				log.Printf("[warn] streak counters diverged habit=%d user=%d: %v", habitID, user.ID, err)
				return b.sendText(chatID, "⚠️ The check-in was recorded but the streak counter didn't update. It will look off until reconciled.")
			}
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return b.sendText(chatID, "Habit not found.")
			}
			return b.sendText(chatID, fmt.Sprintf("Couldn't toggle the habit: %s", escape(err.Error())))
		}
		log.Printf("[info] habit toggled id=%d user=%d done=%t streak=%d", habit.ID, user.ID, done, habit.CurrentStreak)
		return b.sendHabitView(ctx, chatID, user)
	default:
		return nil
	}
}

// --- plumbing -------------------------------------------------------------

func (b *Bot) ensureUser(ctx context.Context, from *tgbotapi.User) (*model.User, error) {
	return b.userRepo.UpsertFromTelegram(ctx, from.ID, from.FirstName, from.LastName, from.UserName)
}

// replyServiceError turns a service failure into a chat notice. Validation
// errors read as guidance; everything else as a retryable store problem.
func (b *Bot) replyServiceError(chatID int64, action string, err error) error {
	if errors.Is(err, service.ErrValidation) {
		return b.sendText(chatID, fmt.Sprintf("🚫 %s", escape(err.Error())))
	}
	return b.sendText(chatID, fmt.Sprintf("Couldn't %s: %s. Nothing was changed — try again.", action, escape(err.Error())))
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendTextWithRemove(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) setConversation(userID int64, state *conversationState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[userID] = state
}

func (b *Bot) getConversation(userID int64) *conversationState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[userID]
}

func (b *Bot) hasConversation(userID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.conversations[userID]
	return ok
}

func (b *Bot) clearConversation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, userID)
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	text := strings.TrimSpace(msg.Text)
	switch text {
	case menuLabelToday:
		return true, b.handleToday(ctx, msg)
	case menuLabelHabits:
		return true, b.handleHabits(ctx, msg)
	case menuLabelGoals:
		return true, b.handleGoals(ctx, msg)
	case menuLabelWeek:
		return true, b.handleWeek(ctx, msg)
	case menuLabelInsight:
		return true, b.handleInsight(ctx, msg)
	case menuLabelReport:
		return true, b.handleReport(ctx, msg)
	default:
		return false, nil
	}
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelToday),
			tgbotapi.NewKeyboardButton(menuLabelHabits),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelGoals),
			tgbotapi.NewKeyboardButton(menuLabelWeek),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelInsight),
			tgbotapi.NewKeyboardButton(menuLabelReport),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = false
	return kb
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func skipKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSkip),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func habitCategoryKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("health"),
			tgbotapi.NewKeyboardButton("learning"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("mindfulness"),
			tgbotapi.NewKeyboardButton("fitness"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSkip),
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func goalCategoryKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("primary"),
			tgbotapi.NewKeyboardButton("skill"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("health"),
			tgbotapi.NewKeyboardButton("financial"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("personal"),
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func isSkipInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == "-" || value == strings.ToLower(btnSkip) || value == "skip"
}

func isCancelDialogInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancelDialog) || value == "cancel input" || value == "cancel"
}

func parseIDArg(raw string) (uint, bool) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || value == 0 {
		return 0, false
	}
	return uint(value), true
}

func shortTitle(title string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func progressBar(progress int) string {
	const width = 10
	filled := progress * width / 100
	if filled > width {
		filled = width
	}
	return strings.Repeat("▰", filled) + strings.Repeat("▱", width-filled)
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "—"
	}
	return value
}

func escape(s string) string {
	return html.EscapeString(s)
}

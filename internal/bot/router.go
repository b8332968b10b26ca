package bot

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"course-material-bot/internal/entity"
	"course-material-bot/internal/pkg/logger"
	"course-material-bot/internal/repository/memory"
	"course-material-bot/internal/service"
	"course-material-bot/pkg/gateway"
	"course-material-bot/pkg/store"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var yearPattern = regexp.MustCompile(`^(1st|2nd|3rd|4th) Year$`)

// Router dispatches Telegram updates: the /start setup conversation plus
// the listing and fetch commands. It is thin glue; all resolution and
// caching logic lives in the services.
type Router struct {
	tg             *gateway.Telegram
	sessions       *memory.SessionRepository
	locator        service.ILocatorService
	catalog        service.ICatalogService
	suggestionForm string
	log            logger.ILogger
}

func NewRouter(
	tg *gateway.Telegram,
	sessions *memory.SessionRepository,
	locator service.ILocatorService,
	catalog service.ICatalogService,
	suggestionForm string,
	log logger.ILogger,
) *Router {
	return &Router{
		tg:             tg,
		sessions:       sessions,
		locator:        locator,
		catalog:        catalog,
		suggestionForm: suggestionForm,
		log:            log,
	}
}

// Run consumes the long-polling update channel until ctx is cancelled.
// Updates are handled concurrently; one failed request never affects the
// next.
func (r *Router) Run(ctx context.Context) {
	updates := r.tg.Updates()
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			go r.handleMessage(ctx, update.Message)
		}
	}
}

func (r *Router) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("bot", "panic while handling update", map[string]interface{}{
				"panic": fmt.Sprint(rec), "user_id": msg.From.ID,
			})
		}
	}()

	if msg.IsCommand() {
		r.handleCommand(ctx, msg)
		return
	}
	r.handleConversation(msg)
}

func (r *Router) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		r.handleStart(userID, chatID)
	case "cancel":
		r.tg.SendMarkdownRemoveKeyboard(chatID, `Operation cancelled\.`)
	case "suggestion":
		r.tg.SendText(chatID, "Got a suggestion or want to report an issue? Please fill out this form:\n\n"+r.suggestionForm)
	case "help":
		r.handleHelp(userID, chatID)
	case "branches":
		r.handleBranches(ctx, userID, chatID)
	case "subjects":
		r.handleSubjects(ctx, userID, chatID, msg.CommandArguments())
	case "assignments":
		r.handleListNumbers(ctx, userID, chatID, msg.CommandArguments(), entity.KindAssignment)
	case "notes":
		r.handleListNumbers(ctx, userID, chatID, msg.CommandArguments(), entity.KindNote)
	case "get":
		r.handleGet(ctx, userID, chatID, msg.CommandArguments(), entity.KindAssignment)
	case "getnote":
		r.handleGet(ctx, userID, chatID, msg.CommandArguments(), entity.KindNote)
	}
}

// handleConversation advances the /start setup flow for plain text messages.
func (r *Router) handleConversation(msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	session, found := r.sessions.Get(userID)
	if !found {
		return
	}

	switch session.State {
	case store.StateSelectYear:
		if !yearPattern.MatchString(msg.Text) {
			return
		}
		yearDisplay := msg.Text
		session.Year = strings.ReplaceAll(yearDisplay, " ", "_")
		session.YearDisplay = yearDisplay
		session.State = store.StateGetName
		r.sessions.Save(session)
		r.tg.SendMarkdownRemoveKeyboard(chatID, fmt.Sprintf(
			"Great\\! You've selected *%s*\\.\n\nNow, what's your name?",
			EscapeMarkdown(yearDisplay)))

	case store.StateGetName:
		session.Name = msg.Text
		session.State = store.StateReady
		r.sessions.Save(session)
		_, _ = r.tg.SendMarkdown(chatID, fmt.Sprintf(
			"Hi %s\\! You're all set up\\. You can now use the bot commands\\.\n\nType /help to see what I can do\\.",
			EscapeMarkdown(session.Name)))
	}
}

func (r *Router) handleStart(userID, chatID int64) {
	r.sessions.Save(&store.Session{
		UserID: userID,
		ChatID: chatID,
		State:  store.StateSelectYear,
	})
	r.tg.SendKeyboard(chatID,
		"👋 Welcome\\! Let's get you set up\\.\n\nFirst, please select your academic year\\.",
		[][]string{{"1st Year", "2nd Year"}, {"3rd Year", "4th Year"}})
}

// requireSession gates every document/listing command; unconfigured users
// are prompted to /start before any remote call is made.
func (r *Router) requireSession(userID, chatID int64) (*store.Session, bool) {
	session, found := r.sessions.Get(userID)
	if !found || !session.Configured() {
		_, _ = r.tg.SendMarkdown(chatID,
			"Welcome\\! Please start by using the /start command to set your year and name\\.")
		return nil, false
	}
	return session, true
}

// groupNoun is the user-facing word for the second hierarchy level. First
// year cohorts are split into divisions, later years into branches.
func groupNoun(session *store.Session) string {
	if session.Year == "1st_Year" {
		return "division"
	}
	return "branch"
}

func (r *Router) handleHelp(userID, chatID int64) {
	session, ok := r.requireSession(userID, chatID)
	if !ok {
		return
	}

	noun := groupNoun(session)
	nounUpper := strings.ToUpper(noun)
	helpText := fmt.Sprintf(
		"👋 Hello %s\\! Your current year is set to *%s*\\.\n\n"+
			"*Available Commands:*\n"+
			"• `/branches` \\- Lists %ses for your year\\.\n"+
			"• `/subjects <%s>` \\- Lists subjects for a %s\\.\n"+
			"• `/assignments <%s> <SUBJECT>` \\- Lists available assignment numbers\\.\n"+
			"• `/notes <%s> <SUBJECT>` \\- Lists available note/unit numbers\\.\n"+
			"• `/get <%s> <SUBJECT> <NUMBER>` \\- Fetches an assignment file\\.\n"+
			"• `/getnote <%s> <SUBJECT> <NUMBER>` \\- Fetches a note/unit file\\.\n"+
			"• `/suggestion` \\- Send a suggestion or feedback\\.\n"+
			"• `/start` \\- To reset your year and name\\.\n"+
			"• `/cancel` \\- To end any active command\\.",
		EscapeMarkdown(session.Name), EscapeMarkdown(session.YearDisplay),
		noun, nounUpper, noun, nounUpper, nounUpper, nounUpper, nounUpper)
	_, _ = r.tg.SendMarkdown(chatID, helpText)
}

func (r *Router) handleBranches(ctx context.Context, userID, chatID int64) {
	session, ok := r.requireSession(userID, chatID)
	if !ok {
		return
	}

	groups, err := r.catalog.ListGroups(ctx, userID, session.Year)
	if err != nil {
		_, _ = r.tg.SendMarkdown(chatID, fmt.Sprintf(
			"🤷 No folder found for your year: `%s`\\.", EscapeMarkdown(session.YearDisplay)))
		return
	}
	if len(groups) == 0 {
		_, _ = r.tg.SendMarkdown(chatID, fmt.Sprintf(
			"🤷 No %ses found for `%s`\\.", groupNoun(session), EscapeMarkdown(session.YearDisplay)))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📚 *Available %ses for %s:*\n", capitalize(groupNoun(session)), EscapeMarkdown(session.YearDisplay))
	for _, g := range groups {
		fmt.Fprintf(&b, "\n• `%s`", EscapeMarkdown(g))
	}
	_, _ = r.tg.SendMarkdown(chatID, b.String())
}

func (r *Router) handleSubjects(ctx context.Context, userID, chatID int64, rawArgs string) {
	session, ok := r.requireSession(userID, chatID)
	if !ok {
		return
	}

	args := strings.Fields(rawArgs)
	if len(args) != 1 {
		r.tg.SendText(chatID, fmt.Sprintf("⚠️ Usage: /subjects <%s>", strings.ToUpper(groupNoun(session))))
		return
	}
	group := strings.ToUpper(args[0])

	subjects, err := r.catalog.ListSubjects(ctx, userID, session.Year, group)
	if err != nil {
		_, _ = r.tg.SendMarkdown(chatID, fmt.Sprintf(
			"❌ %s folder for `%s` not found in `%s`\\.",
			capitalize(groupNoun(session)), EscapeMarkdown(group), EscapeMarkdown(session.YearDisplay)))
		return
	}
	if len(subjects) == 0 {
		_, _ = r.tg.SendMarkdown(chatID, fmt.Sprintf(
			"🤷 No subjects found for %s `%s`\\.", groupNoun(session), EscapeMarkdown(group)))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📖 *Subjects for %s/%s:*\n", EscapeMarkdown(session.YearDisplay), EscapeMarkdown(group))
	for _, subj := range subjects {
		fmt.Fprintf(&b, "\n• `%s`", EscapeMarkdown(subj))
	}
	_, _ = r.tg.SendMarkdown(chatID, b.String())
}

func (r *Router) handleListNumbers(ctx context.Context, userID, chatID int64, rawArgs string, kind entity.Kind) {
	session, ok := r.requireSession(userID, chatID)
	if !ok {
		return
	}

	command, itemLabel := "assignments", "Assignment"
	if kind == entity.KindNote {
		command, itemLabel = "notes", "Unit"
	}

	args := strings.Fields(rawArgs)
	if len(args) != 2 {
		r.tg.SendText(chatID, fmt.Sprintf("⚠️ Usage: /%s <%s> <SUBJECT>", command, strings.ToUpper(groupNoun(session))))
		return
	}
	group, subject := strings.ToUpper(args[0]), strings.ToUpper(args[1])

	numbers, err := r.locator.ListNumbers(ctx, userID, session.Year, group, subject, kind)
	if err != nil {
		_, _ = r.tg.SendMarkdown(chatID, fmt.Sprintf(
			"❌ No `%s` folder found for `%s/%s`\\.",
			kind.SubfolderName(), EscapeMarkdown(group), EscapeMarkdown(subject)))
		return
	}
	if len(numbers) == 0 {
		_, _ = r.tg.SendMarkdown(chatID, fmt.Sprintf(
			"🤷 No %s found for `%s/%s`\\.", command, EscapeMarkdown(group), EscapeMarkdown(subject)))
		return
	}

	var b strings.Builder
	if kind == entity.KindNote {
		fmt.Fprintf(&b, "📝 *Available Notes/Units for %s/%s:*\n", EscapeMarkdown(group), EscapeMarkdown(subject))
	} else {
		fmt.Fprintf(&b, "📄 *Assignments for %s/%s:*\n", EscapeMarkdown(group), EscapeMarkdown(subject))
	}
	for _, n := range numbers {
		fmt.Fprintf(&b, "\n• `%s %d`", itemLabel, n)
	}
	_, _ = r.tg.SendMarkdown(chatID, b.String())
}

func (r *Router) handleGet(ctx context.Context, userID, chatID int64, rawArgs string, kind entity.Kind) {
	session, ok := r.requireSession(userID, chatID)
	if !ok {
		return
	}

	command, itemLabel := "get", "Assignment"
	if kind == entity.KindNote {
		command, itemLabel = "getnote", "Note"
	}

	args := strings.Fields(rawArgs)
	if len(args) != 3 {
		r.tg.SendText(chatID, fmt.Sprintf("⚠️ Usage: /%s <%s> <SUBJECT> <NUMBER>", command, strings.ToUpper(groupNoun(session))))
		return
	}

	number, err := strconv.Atoi(args[2])
	if err != nil || number < 1 {
		_, _ = r.tg.SendMarkdown(chatID, fmt.Sprintf("⚠️ %s number must be a positive integer\\.", itemLabel))
		return
	}
	group, subject := strings.ToUpper(args[0]), strings.ToUpper(args[1])

	placeholderID, err := r.tg.SendMarkdown(chatID, "⏳ Getting your file, please wait\\.\\.\\.")
	if err != nil {
		r.log.Warn("bot", "failed to send placeholder", map[string]interface{}{"error": err.Error()})
	}

	_, err = r.locator.GetOrFetch(ctx, userID, chatID, session.Year, group, subject, kind, number)
	switch {
	case err == nil:
		if placeholderID != 0 {
			r.tg.DeleteMessage(chatID, placeholderID)
		}
	case errors.Is(err, service.ErrNotFound):
		r.editOrSend(chatID, placeholderID, fmt.Sprintf("❌ %s not found\\.", itemLabel))
	case errors.Is(err, service.ErrTransient):
		r.editOrSend(chatID, placeholderID, "⚠️ Error downloading the file from Google Drive\\. Please try again in a moment\\.")
	case errors.Is(err, service.ErrNotConfigured):
		r.editOrSend(chatID, placeholderID, "Welcome\\! Please start by using the /start command to set your year and name\\.")
	default:
		r.log.Error("bot", "fetch failed", map[string]interface{}{
			"user_id": userID, "error": err.Error(),
		})
		r.editOrSend(chatID, placeholderID, "⚠️ Something went wrong\\. Please try again\\.")
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (r *Router) editOrSend(chatID int64, messageID int, text string) {
	if messageID != 0 {
		r.tg.EditMarkdown(chatID, messageID, text)
		return
	}
	_, _ = r.tg.SendMarkdown(chatID, text)
}

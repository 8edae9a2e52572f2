package usecases

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"wa_botflow/internal/entities"
)

// Payloads of the built-in button set shown when a business has no usable
// entry menu.
const (
	PayloadBooking = "booking"
	PayloadFAQ     = "faq"
	PayloadHuman   = "human"

	// OptionPrefix marks buttons rendered from a booking step's expected values.
	OptionPrefix = "opt:"
)

const maxStepAttempts = 3

const (
	intentBooking           = "booking"
	intentOrder             = "order"
	intentHuman             = "human"
	intentCancelAppointment = "cancel_appointment"
	intentCancelOrder       = "cancel_order"
)

const (
	msgOrderPrompt         = "🛒 What would you like to order? Send us the items and quantities."
	msgHumanHandoff        = "👤 Thanks! A member of our team will reply to you shortly."
	msgCancelAppointment   = "🔎 Looking up your appointments, one moment please..."
	msgCancelOrder         = "🔎 Looking up your orders, one moment please..."
	msgBookingUnavailable  = "📅 Online booking is not available right now."
	msgOrderUnavailable    = "🛒 Online ordering is not available right now."
	msgFaqContinuation     = "Ask another question or type *menu* to go back."
	msgDefaultRetry        = "⚠️ That doesn't look right, please try again."
	msgBookingConfirmation = "✅ Thank you! Your booking request has been received."
	msgRequiredAnswer      = "⚠️ This question needs an answer."
)

var menuKeywords = map[string]bool{
	"menu": true, "help": true, "start": true, "home": true,
	"hi": true, "hello": true, "hey": true,
}

// DefaultButtons is offered when the entry menu is missing or has no buttons.
func DefaultButtons() []entities.InteractiveButton {
	return []entities.InteractiveButton{
		{ID: PayloadBooking, Title: "📅 Book"},
		{ID: PayloadFAQ, Title: "❓ FAQ"},
		{ID: PayloadHuman, Title: "👤 Talk to us"},
	}
}

var defaultPayloadActions = map[string]entities.ActionType{
	PayloadBooking: entities.ActionStartBooking,
	PayloadFAQ:     entities.ActionFAQ,
	PayloadHuman:   entities.ActionHuman,
}

// DefaultPayloadFor returns the built-in payload that triggers action, if any.
func DefaultPayloadFor(action entities.ActionType) (string, bool) {
	for p, a := range defaultPayloadActions {
		if a == action {
			return p, true
		}
	}
	return "", false
}

// RouteInput is everything one turn depends on.
type RouteInput struct {
	State        entities.State
	Context      entities.FlowContext
	Config       entities.BotConfig
	Graph        *entities.MenuGraph
	BookingSteps []entities.BookingStep
	Event        entities.Event
}

type turn struct {
	in       RouteInput
	steps    []entities.BookingStep
	text     string
	lower    string
	button   entities.Button
	resolved bool
}

type routeRule struct {
	name   string
	match  func(t *turn) bool
	handle func(t *turn) entities.RouterResult
}

// Rules are evaluated in order; the first match produces the reply.
var routeRules = []routeRule{
	{name: "button", match: matchButton, handle: handleButton},
	{name: "booking_progress", match: matchBookingProgress, handle: handleBookingProgress},
	{name: "menu_trigger", match: matchMenuTrigger, handle: handleMenuTrigger},
	{name: "faq", match: matchFAQ, handle: handleFAQ},
	{name: "default", match: func(*turn) bool { return true }, handle: handleDefault},
}

// Route computes the reply and next state for one inbound event. It performs
// no I/O and returns the same result for the same input.
func Route(in RouteInput) entities.RouterResult {
	if in.Context == nil {
		in.Context = entities.EmptyContext{}
	}
	t := &turn{
		in:    in,
		steps: entities.EnabledSteps(in.BookingSteps),
		text:  strings.TrimSpace(in.Event.Input()),
	}
	t.lower = strings.ToLower(t.text)
	t.button, t.resolved = resolveButton(in)

	for _, r := range routeRules {
		if r.match(t) {
			res := r.handle(t)
			res.Rule = r.name
			return res
		}
	}
	// unreachable, the last rule always matches
	return handleDefault(t)
}

// resolveButton looks a payload up in the displayed menu first, then in the
// whole graph so stale payloads from older menus still work, then among the
// built-in defaults.
func resolveButton(in RouteInput) (entities.Button, bool) {
	if !in.Event.IsButton() {
		return entities.Button{}, false
	}
	payload := in.Event.Payload
	if cur := entities.CurrentMenu(in.Context); cur != "" {
		if b, ok := in.Graph.MenuButton(cur, payload); ok {
			return b, true
		}
	}
	if b, ok := in.Graph.Button(payload); ok {
		return b, true
	}
	if action, ok := defaultPayloadActions[payload]; ok {
		return entities.Button{ID: payload, ActionType: action}, true
	}
	return entities.Button{}, false
}

func matchButton(t *turn) bool { return t.resolved }

func handleButton(t *turn) entities.RouterResult {
	cfg := t.in.Config
	switch t.button.ActionType {
	case entities.ActionOpenMenu:
		target, ok := t.in.Graph.Menu(t.button.NextMenu())
		if !ok || len(target.Buttons) == 0 {
			return entryMenuResult(t, "")
		}
		return menuResult(target.MessageText, target)

	case entities.ActionStartBooking:
		if !cfg.AppointmentEnabled {
			return entryMenuResult(t, msgBookingUnavailable)
		}
		if len(t.steps) == 0 {
			prompt := cfg.ServicePrompt
			if prompt == "" {
				prompt = entities.DefaultBotConfig().ServicePrompt
			}
			return textResult(prompt, entities.StateBookingService, entities.IntentContext{Intent: intentBooking})
		}
		return stepPrompt(t.steps[0], "", entities.BookingContext{Intent: intentBooking})

	case entities.ActionStartOrder:
		if !cfg.OrderEnabled {
			return entryMenuResult(t, msgOrderUnavailable)
		}
		return textResult(msgOrderPrompt, entities.StateOrderStart, entities.IntentContext{Intent: intentOrder})

	case entities.ActionFAQ:
		msg := cfg.FaqWelcomeMessage
		if msg == "" {
			msg = entities.DefaultBotConfig().FaqWelcomeMessage
		}
		return textResult(msg, entities.StateFAQ, entities.FaqContext{})

	case entities.ActionHuman:
		return textResult(msgHumanHandoff, entities.StateHumanReview, entities.IntentContext{Intent: intentHuman})

	case entities.ActionCancelAppointment:
		return textResult(msgCancelAppointment, entities.StateCancelAppointmentCheck,
			entities.IntentContext{Intent: intentCancelAppointment})

	case entities.ActionCancelOrder:
		return textResult(msgCancelOrder, entities.StateCancelOrderCheck,
			entities.IntentContext{Intent: intentCancelOrder})
	}
	return entryMenuResult(t, "")
}

func matchBookingProgress(t *turn) bool {
	if t.in.State != entities.StateBookingStep {
		return false
	}
	bc, ok := t.in.Context.(entities.BookingContext)
	return ok && bc.StepIndex >= 0 && bc.StepIndex < len(t.steps)
}

func handleBookingProgress(t *turn) entities.RouterResult {
	bc := t.in.Context.(entities.BookingContext)
	step := t.steps[bc.StepIndex]

	var (
		answer string
		err    error
	)
	if t.in.Event.IsButton() && !strings.HasPrefix(t.in.Event.Payload, OptionPrefix) {
		// a tap on a button that no longer exists is not an answer
		err = errAnswerInvalid
	} else {
		answer, err = acceptAnswer(step, t.text)
	}
	if err != nil {
		bc.Attempts++
		var assist *entities.AssistRequest
		if step.ValidationType == entities.ValidationDate && t.in.Config.AIFeatureEnabled(entities.AssistDatetime) && t.text != "" && !t.in.Event.IsButton() {
			assist = &entities.AssistRequest{Kind: entities.AssistDatetime, Input: t.text}
		}
		if bc.Attempts >= maxStepAttempts {
			res := entryMenuResult(t, fallbackMessage(t.in.Config))
			res.Assist = assist
			return res
		}
		retry := step.RetryMessage
		if retry == "" {
			retry = msgDefaultRetry
		}
		if err == errAnswerRequired {
			retry = msgRequiredAnswer
		}
		res := stepPrompt(step, retry, bc)
		res.Assist = assist
		return res
	}

	answers := make([]entities.BookingAnswer, 0, len(bc.Answers)+1)
	answers = append(answers, bc.Answers...)
	answers = append(answers, entities.BookingAnswer{StepID: step.ID, Prompt: step.PromptText, Value: answer})

	next := bc.StepIndex + 1
	if next < len(t.steps) {
		return stepPrompt(t.steps[next], "", entities.BookingContext{Intent: bc.Intent, StepIndex: next, Answers: answers})
	}
	return entryMenuResult(t, bookingSummary(answers))
}

func matchMenuTrigger(t *turn) bool {
	return t.in.State == entities.StateNew || menuKeywords[t.lower]
}

func handleMenuTrigger(t *turn) entities.RouterResult { return entryMenuResult(t, "") }

func matchFAQ(t *turn) bool { return t.in.State == entities.StateFAQ }

// handleFAQ returns the first static reply, in declaration order, that has a
// keyword contained in the input.
func handleFAQ(t *turn) entities.RouterResult {
	for _, sr := range t.in.Config.StaticReplies {
		for _, kw := range sr.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" && strings.Contains(t.lower, kw) {
				return textResult(sr.Reply+"\n\n"+msgFaqContinuation, entities.StateFAQ, entities.FaqContext{})
			}
		}
	}
	help := t.in.Config.UnknownMessageHelp
	if help == "" {
		help = entities.DefaultBotConfig().UnknownMessageHelp
	}
	res := textResult(help, entities.StateFAQ, entities.FaqContext{})
	if t.text != "" && t.in.Config.AIFeatureEnabled(entities.AssistFAQ) {
		res.Assist = &entities.AssistRequest{Kind: entities.AssistFAQ, Input: t.text}
	}
	return res
}

func handleDefault(t *turn) entities.RouterResult {
	res := entryMenuResult(t, "")
	if t.in.State == entities.StateAwaitingIntent && !t.in.Event.IsButton() && t.text != "" &&
		t.in.Config.AIFeatureEnabled(entities.AssistIntent) {
		res.Assist = &entities.AssistRequest{Kind: entities.AssistIntent, Input: t.text}
	}
	return res
}

// entryMenuResult re-anchors the conversation on the entry menu. A notice, if
// given, is put above the menu text.
func entryMenuResult(t *turn, notice string) entities.RouterResult {
	var res entities.RouterResult
	entry, ok := t.in.Graph.EntryMenu()
	if ok && len(entry.Buttons) > 0 {
		text := entry.MessageText
		if text == "" {
			text = t.in.Config.GreetingMessage
		}
		res = menuResult(text, entry)
	} else {
		text := t.in.Config.GreetingMessage
		if ok && entry.MessageText != "" {
			text = entry.MessageText
		}
		if text == "" {
			text = entities.DefaultBotConfig().GreetingMessage
		}
		res = entities.RouterResult{
			ReplyText:  text,
			ReplyType:  entities.ReplyInteractive,
			Buttons:    DefaultButtons(),
			NewState:   entities.StateAwaitingIntent,
			NewContext: entities.MenuContext{CurrentMenuID: entry.ID},
		}
	}
	if notice != "" {
		res.ReplyText = notice + "\n\n" + res.ReplyText
	}
	return res
}

func menuResult(text string, m entities.Menu) entities.RouterResult {
	buttons := make([]entities.InteractiveButton, 0, entities.MaxButtonsPerMenu)
	for _, b := range m.SortedButtons() {
		if len(buttons) == entities.MaxButtonsPerMenu {
			break
		}
		buttons = append(buttons, entities.InteractiveButton{ID: b.ID, Title: buttonTitle(b.Label)})
	}
	return entities.RouterResult{
		ReplyText:  text,
		ReplyType:  entities.ReplyInteractive,
		Buttons:    buttons,
		NewState:   entities.StateAwaitingIntent,
		NewContext: entities.MenuContext{CurrentMenuID: m.ID},
	}
}

func textResult(text string, state entities.State, ctx entities.FlowContext) entities.RouterResult {
	return entities.RouterResult{
		ReplyText:  text,
		ReplyType:  entities.ReplyText,
		NewState:   state,
		NewContext: ctx,
	}
}

// stepPrompt asks one booking question. Choice steps offer their first three
// values as buttons and list the rest in the text.
func stepPrompt(step entities.BookingStep, notice string, bc entities.BookingContext) entities.RouterResult {
	text := step.PromptText
	if notice != "" {
		text = notice + "\n\n" + text
	}
	res := textResult(text, entities.StateBookingStep, bc)
	if step.InputType == entities.InputText || len(step.ExpectedValues) == 0 {
		return res
	}
	for i, v := range step.ExpectedValues {
		if i == entities.MaxButtonsPerMenu {
			break
		}
		res.Buttons = append(res.Buttons, entities.InteractiveButton{ID: OptionPrefix + v, Title: buttonTitle(v)})
	}
	res.ReplyType = entities.ReplyInteractive
	if len(step.ExpectedValues) > entities.MaxButtonsPerMenu {
		var sb strings.Builder
		sb.WriteString(res.ReplyText)
		sb.WriteString("\n")
		for i, v := range step.ExpectedValues {
			fmt.Fprintf(&sb, "\n%d. %s", i+1, v)
		}
		res.ReplyText = sb.String()
	}
	return res
}

func bookingSummary(answers []entities.BookingAnswer) string {
	var sb strings.Builder
	sb.WriteString(msgBookingConfirmation)
	for _, a := range answers {
		if a.Value == "" {
			continue
		}
		fmt.Fprintf(&sb, "\n• %s: %s", strings.TrimSuffix(strings.TrimSpace(a.Prompt), "?"), a.Value)
	}
	return sb.String()
}

func fallbackMessage(cfg entities.BotConfig) string {
	if cfg.FallbackMessage != "" {
		return cfg.FallbackMessage
	}
	return entities.DefaultBotConfig().FallbackMessage
}

func buttonTitle(label string) string {
	if utf8.RuneCountInString(label) <= entities.MaxButtonLabelLen {
		return label
	}
	return string([]rune(label)[:entities.MaxButtonLabelLen])
}

var (
	errAnswerRequired = errors.New("answer required")
	errAnswerInvalid  = errors.New("answer invalid")
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ().-]{5,}[0-9]$`)
)

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2 2006",
	"January 2 2006",
	"2006-01-02 15:04",
	"02/01/2006 15:04",
}

// acceptAnswer returns the value to record for step. Free text is checked
// against the step's validation type; choice steps map onto the canonical
// expected value when the input matches one and keep the raw input otherwise.
func acceptAnswer(step entities.BookingStep, input string) (string, error) {
	input = strings.TrimPrefix(input, OptionPrefix)
	if input == "" {
		if step.IsRequired {
			return "", errAnswerRequired
		}
		return "", nil
	}

	if step.InputType != entities.InputText {
		for _, v := range step.ExpectedValues {
			if strings.EqualFold(strings.TrimSpace(v), input) {
				return v, nil
			}
		}
		if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(step.ExpectedValues) {
			return step.ExpectedValues[n-1], nil
		}
		return input, nil
	}

	if !validText(step, input) {
		return "", errAnswerInvalid
	}
	return input, nil
}

func validText(step entities.BookingStep, input string) bool {
	switch step.ValidationType {
	case entities.ValidationEmail:
		if _, err := mail.ParseAddress(input); err != nil {
			return false
		}
		return emailPattern.MatchString(input)
	case entities.ValidationPhone:
		digits := 0
		for _, r := range input {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		return phonePattern.MatchString(input) && digits >= 7 && digits <= 15
	case entities.ValidationNumber:
		_, err := strconv.ParseFloat(strings.ReplaceAll(input, ",", "."), 64)
		return err == nil
	case entities.ValidationDate:
		return isDate(input)
	case entities.ValidationRegex:
		re, err := regexp.Compile(step.ValidationRegex)
		if err != nil {
			return true
		}
		return re.MatchString(input)
	}
	return true
}

// isDate reports whether s is a calendar date in one of the accepted layouts.
func isDate(s string) bool {
	s = strings.Join(strings.Fields(strings.ReplaceAll(s, ",", " ")), " ")
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

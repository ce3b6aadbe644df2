package chatbot

import (
	"regexp"
	"strings"
)

const (
	WelcomeMessage  = "Hello! 👋 Welcome to SwiftLogix customer support. How can I help you today?"
	FallbackMessage = "Thank you for your message! Our team will respond shortly. For immediate assistance with tracking, please visit our Tracking page. Is there anything else I can help you with?"

	TrackingNumberMessage = "I found your tracking number! To get real-time updates, please visit our Tracking page and enter the number there. Our tracking system will show you the complete journey of your shipment with live updates."
)

var trackingNumberPattern = regexp.MustCompile(`(?i)swl-\d{4}-\d{4}-\d{4}`)

// 小文字化したメッセージへの判定と定型の返答
type Rule struct {
	Name     string
	Match    func(lower string) bool
	Response string
}

// どこかにtriggerが含まれていれば当たる
func Contains(trigger, response string) Rule {
	trigger = strings.ToLower(trigger)
	return Rule{
		Name:     trigger,
		Match:    func(lower string) bool { return strings.Contains(lower, trigger) },
		Response: response,
	}
}

// 正規表現で当てる
func Matches(name string, re *regexp.Regexp, response string) Rule {
	return Rule{
		Name:     name,
		Match:    re.MatchString,
		Response: response,
	}
}

// サポートの返答表。上から順に見る（追跡番号の検出はキーワードより後）
func DefaultRules() []Rule {
	return []Rule{
		Contains("track my shipment", "To track your shipment, please visit our Tracking page and enter your tracking number (e.g., SWL-2026-0118-7890). You can also share your tracking number here and I'll help you look it up!"),
		Contains("get a quote", "I'd be happy to help you get a quote! Please share details about: 1) Origin and destination, 2) Approximate weight/dimensions, 3) Preferred shipping method (Air/Ocean/Ground). Or visit our Contact page to submit a quote request form."),
		Contains("business hours", "SwiftLogix operates 24/7 for shipment tracking and support. Our main offices are open Monday-Friday, 8:00 AM - 6:00 PM (EST). You can reach us anytime at +1 (234) 567-890."),
		Contains("contact support", "You can reach our support team via: 📞 Phone: +1 (234) 567-890 (24/7) 📧 Email: support@swiftlogix.com 💬 This chat (we're here!). For urgent matters, phone support is recommended."),
		Matches("tracking number", trackingNumberPattern, TrackingNumberMessage),
	}
}

// 入力欄の下に出すボタン
func QuickReplies() []string {
	return []string{
		"Track my shipment",
		"Get a quote",
		"Business hours",
		"Contact support",
	}
}

type Responder struct {
	rules    []Rule
	fallback string
}

func NewResponder(rules []Rule, fallback string) *Responder {
	return &Responder{rules: rules, fallback: fallback}
}

func NewDefaultResponder() *Responder {
	return NewResponder(DefaultRules(), FallbackMessage)
}

// 最初に当たったruleの返答。どれにも当たらなければfallback
func (r *Responder) Reply(message string) string {
	lower := strings.ToLower(message)
	for _, rule := range r.rules {
		if rule.Match(lower) {
			return rule.Response
		}
	}
	return r.fallback
}

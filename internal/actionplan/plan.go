// Package actionplan turns a risk score into a tiered collection plan.
// Generation is pure: no I/O, no state, re-derivable at any time from the
// current payment behavior.
package actionplan

import (
	"strings"

	behaviordomain "github.com/latewatch/latewatch/internal/behavior/domain"
)

// Urgency tiers, one per risk band.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// companyPlaceholder is the only dynamic field in plan templates; it is
// substituted at render time.
const companyPlaceholder = "{{company}}"

// Plan is the recommended collection posture for one company.
type Plan struct {
	Urgency          Urgency  `json:"urgency"`
	RiskScore        int      `json:"risk_score"`
	RecommendedTerms string   `json:"recommended_terms"`
	Actions          []string `json:"actions"`
	EmailScript      string   `json:"email_script"`
	PhoneScript      string   `json:"phone_script"`
	EscalationAdvice string   `json:"escalation_advice"`
}

// Generate maps a risk score and average lateness to a plan. Total over
// all inputs: scores outside [0,100] are clamped, never rejected. Bands
// are closed on the lower side (<=30, <=60, <=80, else).
func Generate(riskScore int, avgDaysLate float64) Plan {
	if riskScore < 0 {
		riskScore = 0
	}
	if riskScore > 100 {
		riskScore = 100
	}

	switch {
	case riskScore <= 30:
		return lowPlan(riskScore)
	case riskScore <= 60:
		return mediumPlan(riskScore)
	case riskScore <= 80:
		return highPlan(riskScore, avgDaysLate)
	default:
		return criticalPlan(riskScore)
	}
}

// ForBehavior generates a plan from a stored behavior. A nil behavior
// (company without invoices) scores neutral.
func ForBehavior(b *behaviordomain.PaymentBehavior) Plan {
	if b == nil {
		return Generate(behaviordomain.NeutralRiskScore, 0)
	}
	return Generate(int(b.RiskScore), b.AvgDaysLate)
}

// Render substitutes the company name into every templated field.
func (p Plan) Render(companyName string) Plan {
	rendered := p
	rendered.EmailScript = strings.ReplaceAll(p.EmailScript, companyPlaceholder, companyName)
	rendered.PhoneScript = strings.ReplaceAll(p.PhoneScript, companyPlaceholder, companyName)
	rendered.EscalationAdvice = strings.ReplaceAll(p.EscalationAdvice, companyPlaceholder, companyName)
	rendered.Actions = make([]string, len(p.Actions))
	for i, action := range p.Actions {
		rendered.Actions[i] = strings.ReplaceAll(action, companyPlaceholder, companyName)
	}
	return rendered
}

func lowPlan(score int) Plan {
	return Plan{
		Urgency:          UrgencyLow,
		RiskScore:        score,
		RecommendedTerms: "30 days",
		Actions: []string{
			"Invoice on standard 30-day terms.",
			"Send an automated reminder three days before the due date.",
			"Review the relationship at the next quarterly check-in.",
		},
		EmailScript: "Dear {{company}},\n\nThis is a friendly reminder that your invoice " +
			"falls due shortly. Thank you for your consistently reliable payments.\n\nKind regards",
		PhoneScript: "Hello, I'm calling about the upcoming invoice for {{company}}. " +
			"This is just a courtesy check that everything is in order for payment.",
		EscalationAdvice: "No escalation needed. Continue standard terms with {{company}}.",
	}
}

func mediumPlan(score int) Plan {
	return Plan{
		Urgency:          UrgencyMedium,
		RiskScore:        score,
		RecommendedTerms: "14 days",
		Actions: []string{
			"Shorten payment terms to 14 days.",
			"Send a reminder on the due date and again after 7 days overdue.",
			"Flag the account for monthly review.",
		},
		EmailScript: "Dear {{company}},\n\nWe noticed recent invoices have been settled " +
			"later than agreed. To keep the relationship running smoothly we are moving to " +
			"14-day payment terms.\n\nKind regards",
		PhoneScript: "Hello, I'm calling on behalf of accounts receivable regarding " +
			"{{company}}. We'd like to agree on a firm payment date for the open invoice.",
		EscalationAdvice: "Escalate to written notice if {{company}} exceeds 14 days overdue twice in a row.",
	}
}

func highPlan(score int, avgDaysLate float64) Plan {
	actions := []string{
		"Restrict terms to 7 days or request prepayment.",
		"Call before delivering further goods or services.",
		"Require written payment commitment for outstanding balance.",
	}
	if avgDaysLate >= 30 {
		actions = append(actions, "Offer a documented installment schedule for the arrears.")
	}
	return Plan{
		Urgency:          UrgencyHigh,
		RiskScore:        score,
		RecommendedTerms: "7 days / prepayment",
		Actions:          actions,
		EmailScript: "Dear {{company}},\n\nYour outstanding balance is significantly " +
			"overdue. We must receive payment within 7 days, and future orders will require " +
			"payment up front until the account is current.\n\nKind regards",
		PhoneScript: "Hello, this concerns the overdue balance of {{company}}. We need a " +
			"binding payment date this week; otherwise deliveries continue on prepayment only.",
		EscalationAdvice: "Prepare formal demand letter for {{company}}; involve a collection partner if no payment within 14 days.",
	}
}

func criticalPlan(score int) Plan {
	return Plan{
		Urgency:          UrgencyCritical,
		RiskScore:        score,
		RecommendedTerms: "prepayment only",
		Actions: []string{
			"Suspend all credit: prepayment only.",
			"Send a formal demand letter immediately.",
			"Hand over aged receivables to a collection agency.",
			"Review any ongoing contractual obligations with legal.",
		},
		EmailScript: "Dear {{company}},\n\nDespite repeated reminders your account remains " +
			"seriously overdue. All further business is on a prepayment basis and the " +
			"outstanding balance has been passed to our collections process.\n\nKind regards",
		PhoneScript: "Hello, I'm calling about the seriously overdue account of {{company}}. " +
			"The balance is now with collections; payment today can still stop further steps.",
		EscalationAdvice: "Initiate legal collection against {{company}} without further notice.",
	}
}

// internal/intent/slots.go
package intent

import (
	"regexp"
	"strings"
)

// Slot names produced by the deterministic extractor.
const (
	SlotAccount     = "account"
	SlotAmount      = "amount"
	SlotSource      = "source"
	SlotDestination = "destination"
	SlotDueDate     = "due_date"
	SlotMessage     = "message"
	SlotProduct     = "product"
)

var accountKeywords = []string{"savings", "current", "salary", "primary"}

var (
	amountPattern = regexp.MustCompile(`(\d+(?:[.,]\d{1,2})?)`)
	datePattern   = regexp.MustCompile(`(?i)\b(tomorrow|today|day after|\d{1,2}\s*(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)\w*|\d{4}-\d{2}-\d{2})\b`)
	destPattern   = regexp.MustCompile(`(?:to|for)\s+([a-z']+)`)
	loanPattern   = regexp.MustCompile(`\b(home|personal|auto|car|education)\b`)
)

// ExtractSlots applies the per-intent extraction heuristics to the utterance.
// Partial extraction is expected and normal: any slot may be absent. The
// rules are pure functions of intent and text.
func ExtractSlots(intentName, text string) map[string]string {
	lowered := strings.ToLower(text)
	slots := make(map[string]string)

	switch intentName {
	case IntentBalanceCheck, IntentTransactionHistory:
		if account := firstAccountKeyword(lowered); account != "" {
			slots[SlotAccount] = account
		}

	case IntentTransferFunds:
		if m := amountPattern.FindStringSubmatch(lowered); m != nil {
			slots[SlotAmount] = strings.ReplaceAll(m[1], ",", "")
		}
		if account := firstAccountKeyword(lowered); account != "" {
			slots[SlotSource] = account
		}
		if m := destPattern.FindStringSubmatch(lowered); m != nil {
			slots[SlotDestination] = m[1]
		}

	case IntentSetReminder:
		if m := datePattern.FindStringSubmatch(lowered); m != nil {
			slots[SlotDueDate] = m[1]
		}
		slots[SlotMessage] = text

	case IntentLoanInfo:
		if m := loanPattern.FindStringSubmatch(lowered); m != nil {
			slots[SlotProduct] = m[1]
		}
	}

	return slots
}

func firstAccountKeyword(lowered string) string {
	for _, kw := range accountKeywords {
		if strings.Contains(lowered, kw) {
			return kw
		}
	}
	return ""
}

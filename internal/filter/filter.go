package filter

import (
	"time"

	"github.com/dtroode/autoxmail-server/internal/model"
)

// Candidate is a fetched mail reduced to what the rules need.
type Candidate struct {
	From     string
	Subject  string
	Snippet  string
	Text     string
	Spam     bool
	Promo    bool
	Outgoing bool // sent or draft
}

// Rules are one user's filter settings.
type Rules struct {
	Blocklist     []string
	VIP           []string
	Notifications model.NotificationSettings
}

// Verdict is the outcome of Evaluate.
type Verdict struct {
	Notify bool
	Reason model.DecisionReason
	VIP    bool
	OTP    string
}

// Evaluate applies the rules in precedence order, the first decisive rule wins:
// blocklist, VIP, spam and promotions exclusion, then push mode.
func Evaluate(c Candidate, r Rules) Verdict {
	if c.Outgoing {
		return Verdict{}
	}

	sender := SenderAddress(c.From)
	if Matches(sender, r.Blocklist) {
		return Verdict{}
	}

	otp, hasOTP := DetectOTP(c.Subject, c.Snippet, c.Text)

	if Matches(sender, r.VIP) {
		return Verdict{Notify: true, Reason: model.ReasonVIP, VIP: true, OTP: otp}
	}

	n := r.Notifications
	if (c.Spam && n.ExcludeSpam) || (c.Promo && n.ExcludePromotions) {
		return Verdict{}
	}

	switch n.PushMode {
	case model.PushModeOTP:
		if hasOTP {
			return Verdict{Notify: true, Reason: model.ReasonOTP, OTP: otp}
		}
	case model.PushModeAll:
		return Verdict{Notify: true, Reason: model.ReasonAll, OTP: otp}
	}
	// off, and vip-only for non-VIP senders
	return Verdict{}
}

// DeleteDeadline returns when a delivered notification should be removed.
// The per-account override wins when positive, then the global setting;
// the zero time means never.
func DeleteDeadline(now time.Time, accountSecs, globalSecs int) time.Time {
	switch {
	case accountSecs > 0:
		return now.Add(time.Duration(accountSecs) * time.Second)
	case globalSecs > 0:
		return now.Add(time.Duration(globalSecs) * time.Second)
	default:
		return time.Time{}
	}
}

package notifications

import (
	"fmt"
	"strings"
)

// ConfirmedTicket is one issued ticket as rendered in a confirmation email.
type ConfirmedTicket struct {
	TierName         string
	ConfirmationCode string
}

// SendTicketConfirmation sends one email per buyer listing every ticket issued
// to them in a single order. Fire-and-forget like SendEmail.
func SendTicketConfirmation(buyerName, buyerEmail, eventTitle string, tickets []ConfirmedTicket) {
	if len(tickets) == 0 {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<h1>Your Tickets for %s</h1>", eventTitle)
	fmt.Fprintf(&b, "<p>Hi %s,</p><p>Your payment was successful. Here are your tickets:</p><ul>", buyerName)
	for _, t := range tickets {
		fmt.Fprintf(&b, "<li><b>%s</b> | Confirmation Code: <b>%s</b></li>", t.TierName, t.ConfirmationCode)
	}
	b.WriteString("</ul><p>Present your confirmation code at the venue entrance. See you there!</p>")

	subject := fmt.Sprintf("Your Tickets for %s", eventTitle)
	SendEmail(buyerName, buyerEmail, subject, b.String())
}

package services

import (
	"bytes"
	"context"
	"html/template"
	"time"

	"github.com/chinedu-ok/eventpass/models"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// GenerateTicketPDF renders a printable PDF for one issued ticket. Rendered
// on demand; nothing is persisted.
func GenerateTicketPDF(ticket models.Ticket) ([]byte, error) {
	htmlContent, err := renderTicketHTML(ticket)
	if err != nil {
		return nil, err
	}
	return generatePDFFromHTML(htmlContent)
}

func renderTicketHTML(ticket models.Ticket) (string, error) {
	tmpl, err := template.ParseFiles("templates/ticket.html")
	if err != nil {
		return "", err
	}

	data := struct {
		EventTitle       string
		Venue            string
		City             string
		StartTime        string
		TierName         string
		AttendeeName     string
		ConfirmationCode string
	}{
		EventTitle:       ticket.Event.Title,
		Venue:            ticket.Event.Venue,
		City:             ticket.Event.City,
		StartTime:        ticket.Event.StartTime.Format("Monday, January 2, 2006 at 3:04 PM"),
		TierName:         ticket.TicketType.Name,
		AttendeeName:     ticket.AttendeeName,
		ConfirmationCode: ticket.ConfirmationCode,
	}

	var renderedHTML bytes.Buffer
	if err := tmpl.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	ctx, cancelTimeout := context.WithTimeout(ctx, 30*time.Second)
	defer cancelTimeout()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

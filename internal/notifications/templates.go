package notifications

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/narusushi/lunch-backend/pkg/db/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const (
	confirmationTemplate = "order_confirmation.html"
	failureTemplate      = "payment_failed.html"

	deliveryWindow = "12:00 PM - 1:00 PM"
	deliveryLayout = "Monday, 2 January 2006"
)

type itemView struct {
	Name      string
	Quantity  int
	UnitPrice string
	Subtotal  string
}

type confirmationView struct {
	Brand          string
	ParentName     string
	OrderNumber    string
	StudentName    string
	Room           string
	School         string
	DeliveryDate   string
	DeliveryWindow string
	CutoffTime     string
	Items          []itemView
	Total          string
	Year           int
}

type failureView struct {
	Brand       string
	ParentName  string
	OrderNumber string
	Year        int
}

// Email is a rendered message ready to send.
type Email struct {
	Subject   string
	HTML      string
	PlainText string
}

func renderConfirmation(brand string, cutoffHour int, order models.Order, now time.Time) (Email, error) {
	view := confirmationView{
		Brand:          brand,
		ParentName:     order.ParentName,
		OrderNumber:    order.OrderNumber,
		StudentName:    order.StudentName,
		Room:           order.Room,
		School:         order.School,
		DeliveryDate:   order.DeliveryDate.Format(deliveryLayout),
		DeliveryWindow: deliveryWindow,
		CutoffTime:     clockLabel(cutoffHour),
		Total:          order.TotalAmount.StringFixed(2),
		Year:           now.Year(),
	}
	var text strings.Builder
	fmt.Fprintf(&text, "Dear %s,\n\nYour order #%s has been confirmed.\n\n", order.ParentName, order.OrderNumber)
	fmt.Fprintf(&text, "Student: %s\nRoom: %s\nSchool: %s\nDelivery: %s, %s\n\n",
		order.StudentName, order.Room, order.School, view.DeliveryDate, deliveryWindow)
	for _, item := range order.Items {
		iv := itemView{
			Name:      item.ItemName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Subtotal:  item.Subtotal.StringFixed(2),
		}
		view.Items = append(view.Items, iv)
		fmt.Fprintf(&text, "%d x %s  $%s\n", iv.Quantity, iv.Name, iv.Subtotal)
	}
	fmt.Fprintf(&text, "\nTotal: $%s NZD\n", view.Total)

	html, err := execute(confirmationTemplate, view)
	if err != nil {
		return Email{}, err
	}
	return Email{
		Subject:   fmt.Sprintf("Order Confirmation - %s", order.OrderNumber),
		HTML:      html,
		PlainText: text.String(),
	}, nil
}

func renderFailure(brand string, order models.Order, now time.Time) (Email, error) {
	view := failureView{
		Brand:       brand,
		ParentName:  order.ParentName,
		OrderNumber: order.OrderNumber,
		Year:        now.Year(),
	}
	html, err := execute(failureTemplate, view)
	if err != nil {
		return Email{}, err
	}
	text := fmt.Sprintf(
		"Dear %s,\n\nWe encountered an issue processing your payment for order #%s.\n"+
			"Please contact us to complete your order, or place a new order on our website.\n",
		order.ParentName, order.OrderNumber,
	)
	return Email{
		Subject:   fmt.Sprintf("Payment Issue - Order %s", order.OrderNumber),
		HTML:      html,
		PlainText: text,
	}, nil
}

func execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// clockLabel renders an hour as "9:00 AM".
func clockLabel(hour int) string {
	return time.Date(2000, 1, 1, hour, 0, 0, 0, time.UTC).Format("3:04 PM")
}

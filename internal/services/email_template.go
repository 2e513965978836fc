package services

import (
	"fmt"
	"html"
)

// receiptEmailSubject is the confirmation mail subject line
const receiptEmailSubject = "Booking Confirmed - Sunyatee Retreat Shantivan"

// receiptEmailHTML renders the booking confirmation email body. The PDF
// receipt travels as an attachment; the body repeats the key fields so the
// mail stands on its own.
func receiptEmailHTML(data ReceiptData) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background-color:#f4f4f4;font-family:Arial,Helvetica,sans-serif;">
  <div style="max-width:600px;margin:0 auto;background-color:#ffffff;">
    <div style="background-color:#2c3e50;color:#ffffff;padding:24px;text-align:center;">
      <h1 style="margin:0;font-size:22px;">Booking Confirmed</h1>
      <p style="margin:8px 0 0;font-size:14px;">%s</p>
    </div>
    <div style="padding:24px;color:#333333;font-size:14px;line-height:1.6;">
      <p>Dear %s,</p>
      <p>Your booking has been confirmed and your payment received. Your receipt is attached to this email.</p>
      <table style="width:100%%;border-collapse:collapse;margin:16px 0;">
        <tr><td style="padding:6px 0;color:#777777;">Receipt No.</td><td style="padding:6px 0;">%s</td></tr>
        <tr><td style="padding:6px 0;color:#777777;">Date</td><td style="padding:6px 0;">%s</td></tr>
        <tr><td style="padding:6px 0;color:#777777;">Room Type</td><td style="padding:6px 0;">%s</td></tr>
        <tr><td style="padding:6px 0;color:#777777;">Amount Paid</td><td style="padding:6px 0;">Rs. %s</td></tr>
        <tr><td style="padding:6px 0;color:#777777;">Transaction ID</td><td style="padding:6px 0;">%s</td></tr>
      </table>
      <p>We look forward to welcoming you.</p>
      <p style="margin-bottom:0;">Warm regards,<br>Sunyatee International Foundation</p>
    </div>
    <div style="background-color:#f4f4f4;padding:16px;text-align:center;color:#999999;font-size:12px;">
      info@sifworld.com &middot; www.sifworld.com
    </div>
  </div>
</body>
</html>`,
		html.EscapeString(orgEvent),
		html.EscapeString(data.Name),
		html.EscapeString(data.SerialNumber),
		html.EscapeString(data.Date),
		html.EscapeString(data.RoomType),
		FormatIndianAmount(data.Amount),
		html.EscapeString(data.TransactionID),
	)
}

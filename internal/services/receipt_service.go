package services

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/sifworld/retreat-booking-backend/internal/models"
)

const (
	orgName    = "SUNYATEE INTERNATIONAL FOUNDATION"
	orgDetails = "CIN: U85300TG2019NPL136990 REGD. OFFICE.: SY. NO 1128. BESIDE AYYAPPA TEMPLE, SIDDIPET, TELANGANA-502103"
	orgContact = "info@sifworld.com   www.sifworld.com"
	orgEvent   = "SUNYATEE RETREAT SHANTIVAN 26"
)

// ReceiptData is the snapshot of a paid booking a receipt is rendered from
type ReceiptData struct {
	SerialNumber  string
	Date          string
	Name          string
	Age           int
	Mobile        string
	RoomType      string
	Amount        int64
	TransactionID string
}

// ReceiptService renders receipt-voucher PDFs. It is a pure transform over
// booking data: no retries, no external state, and any failure is isolated
// by the caller rather than propagated as a payment failure.
type ReceiptService struct{}

// NewReceiptService creates a new receipt service
func NewReceiptService() *ReceiptService {
	return &ReceiptService{}
}

// Build prepares receipt data from a booking snapshot
func (s *ReceiptService) Build(booking *models.Booking, paymentID string, issuedAt time.Time) ReceiptData {
	txnID := paymentID
	if txnID == "" {
		txnID = "N/A"
	}

	return ReceiptData{
		SerialNumber:  SerialNumber(booking.ID, issuedAt.Year()),
		Date:          issuedAt.Format("02 Jan 2006"),
		Name:          booking.Name,
		Age:           booking.Age,
		Mobile:        booking.Mobile,
		RoomType:      booking.RoomType,
		Amount:        booking.Amount,
		TransactionID: txnID,
	}
}

// Generate renders the receipt voucher as A4 PDF bytes
func (s *ReceiptService) Generate(data ReceiptData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pageWidth, pageHeight := pdf.GetPageSize()

	// Outer border
	pdf.SetLineWidth(1.0)
	pdf.Rect(10, 10, pageWidth-20, pageHeight-20, "D")

	// Header
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(18, 22)
	pdf.CellFormat(pageWidth-36, 10, orgName, "", 1, "C", false, 0, "")

	pdf.SetLineWidth(0.3)
	pdf.Line(18, 34, pageWidth-18, 34)

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(18, 36)
	pdf.CellFormat(pageWidth-36, 4, orgDetails, "", 1, "C", false, 0, "")
	pdf.SetX(18)
	pdf.CellFormat(pageWidth-36, 4, orgContact, "", 1, "C", false, 0, "")

	// Receipt voucher box
	pdf.SetLineWidth(0.6)
	pdf.Rect((pageWidth-70)/2, 50, 70, 12, "D")
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetXY(18, 53)
	pdf.CellFormat(pageWidth-36, 6, "RECEIPT VOUCHER", "", 1, "C", false, 0, "")

	// Serial number and date
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetXY(25, 72)
	pdf.CellFormat(90, 6, fmt.Sprintf("Sr. no. : %s", data.SerialNumber), "", 0, "L", false, 0, "")
	pdf.CellFormat(70, 6, fmt.Sprintf("Date : %s", data.Date), "", 1, "L", false, 0, "")

	pdf.SetLineWidth(0.3)
	pdf.Line(25, 82, pageWidth-25, 82)

	// Guest details
	pdf.SetXY(25, 90)
	pdf.CellFormat(90, 6, fmt.Sprintf("Received From : %s", data.Name), "", 0, "L", false, 0, "")
	pdf.CellFormat(70, 6, fmt.Sprintf("Age : %d", data.Age), "", 1, "L", false, 0, "")

	pdf.SetXY(25, 102)
	pdf.CellFormat(90, 6, fmt.Sprintf("Towards : %s", orgEvent), "", 0, "L", false, 0, "")
	pdf.CellFormat(70, 6, fmt.Sprintf("Room Type : %s", data.RoomType), "", 1, "L", false, 0, "")

	pdf.SetXY(25, 114)
	pdf.CellFormat(90, 6, fmt.Sprintf("Mobile No. %s", data.Mobile), "", 1, "L", false, 0, "")

	pdf.SetXY(25, 126)
	pdf.CellFormat(110, 6, fmt.Sprintf("Txn. Id : %s", data.TransactionID), "", 1, "L", false, 0, "")

	// Amount box
	pdf.SetLineWidth(0.6)
	pdf.Rect(pageWidth-105, 122, 85, 14, "D")
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetXY(pageWidth-101, 126)
	pdf.CellFormat(77, 6, fmt.Sprintf("AMOUNT : Rs. %s", FormatIndianAmount(data.Amount)), "", 1, "L", false, 0, "")

	// Signature section
	pdf.SetLineWidth(0.3)
	pdf.Line(25, 165, pageWidth-25, 165)

	labelY := 195.0
	pdf.Line(30, labelY-2, 80, labelY-2)
	pdf.Line((pageWidth-50)/2, labelY-2, (pageWidth-50)/2+50, labelY-2)
	pdf.Line(pageWidth-80, labelY-2, pageWidth-30, labelY-2)

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(30, labelY)
	pdf.CellFormat(50, 4, "RECEIVER SIGNATURE", "", 0, "C", false, 0, "")
	pdf.SetX((pageWidth - 50) / 2)
	pdf.CellFormat(50, 4, "ACCOUNTANT", "", 0, "C", false, 0, "")
	pdf.SetX(pageWidth - 80)
	pdf.CellFormat(50, 4, "AUTHORIZED SIGNATORY", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}

	return buf.Bytes(), nil
}

// SerialNumber derives a deterministic receipt serial from the booking id
// and issue year, e.g. SIF-REC-2026-9F3A21BC
func SerialNumber(bookingID string, year int) string {
	compact := strings.ToUpper(strings.ReplaceAll(bookingID, "-", ""))
	if len(compact) > 8 {
		compact = compact[:8]
	}
	return fmt.Sprintf("SIF-REC-%d-%s", year, compact)
}

// FormatIndianAmount formats a rupee amount with Indian digit grouping:
// the last three digits form one group, the rest group in twos
// (123456 -> 1,23,456)
func FormatIndianAmount(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	s := strconv.FormatInt(amount, 10)
	if len(s) <= 3 {
		return sign + s
	}

	head, tail := s[:len(s)-3], s[len(s)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	groups = append(groups, tail)

	return sign + strings.Join(groups, ",")
}

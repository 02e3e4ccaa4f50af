package loan

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"inventaris_admin/gateway"
	"inventaris_admin/models"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
)

const (
	FieldBorrowerName      = "borrowerName"
	FieldItemID            = "itemId"
	FieldQuantity          = "quantity"
	FieldBorrowedDate      = "borrowedDate"
	FieldPlannedReturnDate = "plannedReturnDate"
	FieldAttachmentPath    = "attachmentPath"
)

// fieldOrder decides which field is reported when several fail.
var fieldOrder = []string{
	FieldBorrowerName,
	FieldItemID,
	FieldQuantity,
	FieldBorrowedDate,
	FieldPlannedReturnDate,
	FieldAttachmentPath,
}

const attachmentMIME = "application/pdf"

// Attachment is either a stored document (Path) or a new upload (File).
type Attachment struct {
	Path string
	File *gateway.File
}

// Request carries the fields of a create or edit.
type Request struct {
	BorrowerName      string
	ItemID            int64
	Quantity          int
	BorrowedDate      models.Date
	PlannedReturnDate models.Date
	Attachment        Attachment
}

// checked is the flat form validator sees; declaration order is fieldOrder.
type checked struct {
	BorrowerName      string    `field:"borrowerName" validate:"required"`
	ItemID            int64     `field:"itemId" validate:"gt=0"`
	Quantity          int       `field:"quantity" validate:"min=1"`
	BorrowedDate      time.Time `field:"borrowedDate" validate:"required"`
	PlannedReturnDate time.Time `field:"plannedReturnDate" validate:"required,gtefield=BorrowedDate"`
	AttachmentPath    string    `field:"attachmentPath" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string { return f.Tag.Get("field") })
	return v
}

func (r Request) checked() checked {
	c := checked{
		BorrowerName:      strings.TrimSpace(r.BorrowerName),
		ItemID:            r.ItemID,
		Quantity:          r.Quantity,
		BorrowedDate:      r.BorrowedDate.Time,
		PlannedReturnDate: r.PlannedReturnDate.Time,
		AttachmentPath:    strings.TrimSpace(r.Attachment.Path),
	}
	if f := r.Attachment.File; f != nil && len(f.Data) > 0 {
		c.AttachmentPath = f.Name
		if c.AttachmentPath == "" {
			c.AttachmentPath = "upload"
		}
	}
	return c
}

// failures returns every failing field with a reason. Fields that validator
// accepted may still fail here on item membership or attachment type.
func (r Request) failures() map[string]string {
	out := make(map[string]string)
	var ves validator.ValidationErrors
	if errors.As(validate.Struct(r.checked()), &ves) {
		for _, fe := range ves {
			out[fe.Field()] = reasonFor(fe)
		}
	}
	if f := r.Attachment.File; f != nil && len(f.Data) > 0 {
		if !mimetype.Detect(f.Data).Is(attachmentMIME) {
			out[FieldAttachmentPath] = "attachment must be a PDF document"
		}
	}
	return out
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "gt":
		return "required"
	case "min":
		return "must be at least " + fe.Param()
	case "gtefield":
		return "must not be before borrowedDate"
	}
	return fe.Tag()
}

func firstFailure(failed map[string]string) *MissingFieldError {
	for _, f := range fieldOrder {
		if reason, ok := failed[f]; ok {
			return &MissingFieldError{Field: f, Reason: reason}
		}
	}
	return nil
}

func (r Request) form() gateway.LoanForm {
	f := gateway.LoanForm{
		BorrowerName:      strings.TrimSpace(r.BorrowerName),
		ItemID:            r.ItemID,
		Quantity:          r.Quantity,
		BorrowedDate:      r.BorrowedDate,
		PlannedReturnDate: r.PlannedReturnDate,
	}
	if file := r.Attachment.File; file != nil && len(file.Data) > 0 {
		cp := *file
		if cp.ContentType == "" {
			cp.ContentType = attachmentMIME
		}
		f.File = &cp
	} else {
		f.AttachmentPath = strings.TrimSpace(r.Attachment.Path)
	}
	return f
}

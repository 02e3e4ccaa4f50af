package gateway

import "inventaris_admin/models"

type Credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token string         `json:"token"`
	User  models.Profile `json:"user"`
}

// File is an uploaded attachment.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// LoanForm is the multipart body of POST /loans and PUT /loans/{ref}.
type LoanForm struct {
	BorrowerName      string
	ItemID            int64
	Quantity          int
	BorrowedDate      models.Date
	PlannedReturnDate models.Date
	// AttachmentPath keeps the stored document on edit when File is nil.
	AttachmentPath string
	File           *File
}

// every list and object body is wrapped in {"data": ...}
type envelope[T any] struct {
	Data *T `json:"data"`
}

package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"inventaris_admin/app"
	"inventaris_admin/gateway"
	"inventaris_admin/loan"
	"inventaris_admin/models"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
)

type LoanController struct{ *Srv }

func NewLoanController(s *Srv) *LoanController { return &LoanController{Srv: s} }

type loanRow struct {
	No int `json:"no"`
	models.Loan
}

type statusOption struct {
	Label string        `json:"label"`
	Value models.Status `json:"value"`
}

func statusOptions(current models.Status) []statusOption {
	sts := loan.AllowedStatuses(current)
	out := make([]statusOption, 0, len(sts))
	for _, st := range sts {
		out = append(out, statusOption{Label: st.Label(), Value: st})
	}
	return out
}

func (lc *LoanController) page(c *gin.Context, ls []models.Loan) {
	if raw := c.Query("status"); raw != "" {
		st, err := models.ParseStatus(raw)
		if err != nil {
			lc.fail(c, fmt.Errorf("%w: %w", loan.ErrInvalidStatus, err))
			return
		}
		kept := ls[:0:0]
		for _, l := range ls {
			if l.Status == st {
				kept = append(kept, l)
			}
		}
		ls = kept
	}

	p := pagingFrom(c)
	from, to, no := p.window(len(ls))
	rows := make([]loanRow, 0, to-from)
	for i, l := range ls[from:to] {
		rows = append(rows, loanRow{No: no + i, Loan: l})
	}
	c.JSON(http.StatusOK, app.H{
		"total":         len(ls),
		"page":          p.Page,
		"size":          p.Size,
		"loans":         rows,
		"statusOptions": statusOptions(""),
	})
}

// GET /api/loans?page=&size=&status=
func (lc *LoanController) ListLoans(c *gin.Context) {
	ls, err := lc.Loans.List(c.Request.Context(), app.CurrentSession(c))
	if err != nil {
		lc.fail(c, err)
		return
	}
	lc.page(c, ls)
}

// GET /api/loan-history?page=&size=&status=
func (lc *LoanController) History(c *gin.Context) {
	ls, err := lc.Loans.History(c.Request.Context(), app.CurrentSession(c))
	if err != nil {
		lc.fail(c, err)
		return
	}
	lc.page(c, ls)
}

// POST /api/loans (multipart)
func (lc *LoanController) CreateLoan(c *gin.Context) {
	req, err := lc.bindLoanForm(c)
	if err != nil {
		lc.fail(c, err)
		return
	}
	l, err := lc.Loans.Create(c.Request.Context(), app.CurrentSession(c), req)
	if err != nil {
		lc.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

// PUT /api/loans/:id (multipart)
func (lc *LoanController) EditLoan(c *gin.Context) {
	req, err := lc.bindLoanForm(c)
	if err != nil {
		lc.fail(c, err)
		return
	}
	l, err := lc.Loans.Edit(c.Request.Context(), app.CurrentSession(c), c.Param("id"), req)
	if err != nil {
		lc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// PUT /api/loans/:id/status
func (lc *LoanController) ChangeStatus(c *gin.Context) {
	var in struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	l, err := lc.Loans.ChangeStatus(c.Request.Context(), app.CurrentSession(c), c.Param("id"), in.Status)
	if err != nil {
		lc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"loan": l, "statusOptions": statusOptions(l.Status)})
}

// GET /api/loans/:id/events?page=&size=
func (lc *LoanController) Events(c *gin.Context) {
	if lc.Audit == nil {
		c.JSON(http.StatusNotImplemented, app.H{"error": "audit trail disabled"})
		return
	}
	p := pagingFrom(c)
	res, err := lc.Audit.ListLoanEvents(c.Request.Context(), c.Param("id"), p.Page, p.Size)
	if err != nil {
		lc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"total": res.Total, "events": res.Events})
}

// bindLoanForm reads the multipart loan form. Unparseable numbers and dates
// stay zero so validation reports them as the failing field.
func (lc *LoanController) bindLoanForm(c *gin.Context) (loan.Request, error) {
	var req loan.Request
	if lc.MaxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, lc.MaxUpload)
	}

	req.BorrowerName = strings.TrimSpace(c.PostForm("nama_peminjam"))
	req.ItemID, _ = strconv.ParseInt(strings.TrimSpace(c.PostForm("barang_id")), 10, 64)
	req.Quantity, _ = strconv.Atoi(strings.TrimSpace(c.PostForm("jumlah")))
	if d, err := models.ParseDate(c.PostForm("tanggal_pinjam")); err == nil {
		req.BorrowedDate = d
	}
	if d, err := models.ParseDate(c.PostForm("tanggal_kembali_direncanakan")); err == nil {
		req.PlannedReturnDate = d
	}
	req.Attachment.Path = strings.TrimSpace(c.PostForm("path_file_peminjaman"))

	fh, err := c.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return req, nil
	case err != nil:
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return req, &loan.MissingFieldError{Field: loan.FieldAttachmentPath, Reason: "file too large"}
		}
		// 非 multipart 请求：交给校验按字段报错
		return req, nil
	}

	f, err := fh.Open()
	if err != nil {
		return req, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return req, fmt.Errorf("read upload: %w", err)
	}
	ct := fh.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		ct = mimetype.Detect(data).String()
	}
	req.Attachment.File = &gateway.File{Name: fh.Filename, ContentType: ct, Data: data}
	return req, nil
}

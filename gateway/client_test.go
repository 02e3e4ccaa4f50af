package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inventaris_admin/models"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewWithHTTPClient(srv.URL+"/api", srv.Client(), 2*time.Second)
}

func TestLogin_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		var in Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		require.Equal(t, "admin", in.Username)
		_, _ = io.WriteString(w, `{"token":"tok","user":{"id":1,"username":"admin"}}`)
	})

	res, err := c.Login(context.Background(), Credentials{Username: "admin", Password: "secret"})
	require.NoError(t, err)
	require.Equal(t, "tok", res.Token)
	require.Equal(t, "1", res.User.ID)
}

func TestLogin_UnauthorizedCarriesMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"Password salah"}`)
	})

	_, err := c.Login(context.Background(), Credentials{Username: "admin", Password: "x"})
	require.Error(t, err)
	require.Equal(t, KindUnauthorized, KindOf(err))
	require.Equal(t, "Password salah", MessageOf(err))
}

func TestListItems_SendsBearerAndDecodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"data":[{"id":3,"uuid":"i-3","nama_barang":"Tenda","kategori":"Outdoor","stok":4,"kondisi":"baik","path_img":"uploads/t.png"}]}`)
	})

	items, err := c.ListItems(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, int64(3), items[0].ID)
	require.Equal(t, models.ConditionGood, items[0].Condition())
}

func TestListLoans_MissingEnvelopeIsDecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})

	_, err := c.ListLoans(context.Background(), "tok")
	require.Equal(t, KindDecode, KindOf(err))
}

func TestListLoans_EmptyDataIsNotAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":[]}`)
	})

	loans, err := c.LoanHistory(context.Background(), "tok")
	require.NoError(t, err)
	require.Empty(t, loans)
}

func TestCreateLoan_Multipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/loans", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "Budi", r.FormValue("nama_peminjam"))
		require.Equal(t, "3", r.FormValue("barang_id"))
		require.Equal(t, "2", r.FormValue("jumlah"))
		require.Equal(t, "2024-01-01", r.FormValue("tanggal_pinjam"))
		require.Equal(t, "2024-01-10", r.FormValue("tanggal_kembali_direncanakan"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		require.Equal(t, "surat.pdf", hdr.Filename)
		require.Equal(t, "application/pdf", hdr.Header.Get("Content-Type"))

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"data":{"id":9,"uuid":"l-9","nama_peminjam":"Budi","barang_id":3,"jumlah":2,
			"tanggal_pinjam":"2024-01-01","tanggal_kembali_direncanakan":"2024-01-10",
			"path_file_peminjaman":"uploads/surat.pdf","status":"dipinjam"}}`)
	})

	loan, err := c.CreateLoan(context.Background(), "tok", LoanForm{
		BorrowerName:      "Budi",
		ItemID:            3,
		Quantity:          2,
		BorrowedDate:      models.NewDate(2024, 1, 1),
		PlannedReturnDate: models.NewDate(2024, 1, 10),
		File:              &File{Name: "surat.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")},
	})
	require.NoError(t, err)
	require.Equal(t, "l-9", loan.UUID)
	require.Equal(t, models.StatusBorrowed, loan.Status)
}

func TestUpdateLoan_KeepsExistingAttachment(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/loans/l-9", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "uploads/surat.pdf", r.FormValue("path_file_peminjaman"))
		require.Empty(t, r.FormValue("status"))
		_, _ = io.WriteString(w, `{"data":{"uuid":"l-9","status":"hilang"}}`)
	})

	loan, err := c.UpdateLoan(context.Background(), "tok", "l-9", LoanForm{
		BorrowerName:   "Budi",
		ItemID:         3,
		Quantity:       1,
		AttachmentPath: "uploads/surat.pdf",
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusLost, loan.Status)
}

func TestUpdateLoanStatus_WireValue(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		require.Equal(t, "dikembalikan", in["status"])
		w.WriteHeader(http.StatusNoContent)
	})

	loan, err := c.UpdateLoanStatus(context.Background(), "tok", "l-9", models.StatusReturned)
	require.NoError(t, err)
	require.Nil(t, loan)
}

func TestStatusMapping(t *testing.T) {
	cases := map[int]Kind{
		http.StatusNotFound:            KindNotFound,
		http.StatusUnprocessableEntity: KindRejected,
		http.StatusForbidden:           KindUnauthorized,
		http.StatusBadGateway:          KindUnavailable,
	}
	for code, want := range cases {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		})
		_, err := c.UpdateLoanStatus(context.Background(), "tok", "x", models.StatusLost)
		require.Equal(t, want, KindOf(err), code)
	}
}

func TestTimeoutIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	t.Cleanup(srv.Close)
	c := NewWithHTTPClient(srv.URL, srv.Client(), 50*time.Millisecond)

	_, err := c.ListItems(context.Background(), "tok")
	require.Equal(t, KindUnavailable, KindOf(err))
}

func TestListLoans_RowWithoutStatusIsDecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":[{"id":1,"uuid":"l-1","status":"dipinjam"},{"id":2,"uuid":"l-2","nama_peminjam":"Siti"}]}`)
	})

	_, err := c.ListLoans(context.Background(), "tok")
	require.Equal(t, KindDecode, KindOf(err))
	require.Contains(t, err.Error(), "l-2")
}

func TestUpdateLoan_ResponseWithoutStatusIsDecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":{"uuid":"l-9","nama_peminjam":"Budi"}}`)
	})

	_, err := c.UpdateLoan(context.Background(), "tok", "l-9", LoanForm{AttachmentPath: "uploads/surat.pdf"})
	require.Equal(t, KindDecode, KindOf(err))
}

func TestUpdateLoan_EmptyAckReturnsNil(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	loan, err := c.UpdateLoan(context.Background(), "tok", "l-9", LoanForm{AttachmentPath: "uploads/surat.pdf"})
	require.NoError(t, err)
	require.Nil(t, loan)
}

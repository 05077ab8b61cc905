package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"music-catalog-backend/internal/domains/artist"
	"music-catalog-backend/internal/shared/pagination"
	"music-catalog-backend/internal/validation"
)

type fakeExists struct {
	rows map[string]bool
}

func (f *fakeExists) Exists(_ context.Context, table, column string, value interface{}) (bool, error) {
	return f.rows[fmt.Sprintf("%s.%s.%v", table, column, value)], nil
}

type fakeService struct {
	artists map[int64]*artist.Artist
	deleted []int64
}

func (f *fakeService) List(_ context.Context, p pagination.Params) (pagination.Page[artist.Artist], error) {
	var all []artist.Artist
	for _, a := range f.artists {
		all = append(all, *a)
	}
	return pagination.NewPage(len(all), p.Page, p.PerPage, all), nil
}

func (f *fakeService) Create(_ context.Context, name string) (*artist.Artist, error) {
	a := &artist.Artist{ID: int64(len(f.artists) + 1), Name: name}
	f.artists[a.ID] = a
	return a, nil
}

func (f *fakeService) Get(_ context.Context, id int64) (*artist.Detail, error) {
	a, ok := f.artists[id]
	if !ok {
		return nil, artist.ErrArtistNotFound
	}
	return &artist.Detail{Artist: *a, Albums: []artist.AlbumNode{}}, nil
}

func (f *fakeService) Update(_ context.Context, id int64, name string) (*artist.Artist, error) {
	a, ok := f.artists[id]
	if !ok {
		return nil, artist.ErrArtistNotFound
	}
	a.Name = name
	return a, nil
}

func (f *fakeService) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	delete(f.artists, id)
	return nil
}

func setupRouter(svc artist.Service, exists map[string]bool) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewArtistHandler(svc, validation.New(&fakeExists{rows: exists}))

	r := gin.New()
	r.GET("/artists", h.Index)
	r.POST("/artists", h.Store)
	r.GET("/artists/:id", h.Show)
	r.PUT("/artists/:id", h.Update)
	r.DELETE("/artists/:id", h.Destroy)
	return r
}

func decodeErrors(t *testing.T, body string) []validation.FieldError {
	t.Helper()
	var errs []validation.FieldError
	require.NoError(t, json.Unmarshal([]byte(body), &errs))
	return errs
}

func TestArtistStore(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantErrs   []validation.FieldError
	}{
		{
			name:       "created",
			body:       `{"name":"Elis Regina"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing name",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantErrs: []validation.FieldError{
				{Field: "name", Message: "Campo obrigatório", Validation: "required"},
			},
		},
		{
			name:       "name too short",
			body:       `{"name":"ab"}`,
			wantStatus: http.StatusBadRequest,
			wantErrs: []validation.FieldError{
				{Field: "name", Message: "Mínimo de caracteres não atingido", Validation: "min"},
			},
		},
		{
			name:       "unexpected fields are dropped",
			body:       `{"name":"Gal Costa","admin":true}`,
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter(&fakeService{artists: map[int64]*artist.Artist{}}, nil)

			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/artists", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantErrs != nil {
				assert.Equal(t, tt.wantErrs, decodeErrors(t, w.Body.String()))
			}
			if tt.wantStatus == http.StatusCreated {
				var resp map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "Artista criado com sucesso", resp["message"])
				assert.NotNil(t, resp["artist"])
			}
		})
	}
}

func TestArtistShowUnknownIDIs404(t *testing.T) {
	r := setupRouter(&fakeService{artists: map[int64]*artist.Artist{}}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/artists/99", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	errs := decodeErrors(t, w.Body.String())
	require.Len(t, errs, 1)
	assert.Equal(t, "exists", errs[0].Validation)
	assert.Equal(t, "Este artista não existe", errs[0].Message)
}

func TestArtistShowNonNumericIDIs404(t *testing.T) {
	r := setupRouter(&fakeService{artists: map[int64]*artist.Artist{}}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/artists/abc", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestArtistIndexRequiresAllPaginationParams(t *testing.T) {
	r := setupRouter(&fakeService{artists: map[int64]*artist.Artist{}}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/artists", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	errs := decodeErrors(t, w.Body.String())
	require.Len(t, errs, 4)
	assert.Equal(t, "direction", errs[0].Field)
	assert.Equal(t, "columnName", errs[1].Field)
	assert.Equal(t, "page", errs[2].Field)
	assert.Equal(t, "perPage", errs[3].Field)
}

func TestArtistIndexRejectsUnknownColumn(t *testing.T) {
	r := setupRouter(&fakeService{artists: map[int64]*artist.Artist{}}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/artists?direction=asc&columnName=year&page=0&perPage=10", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	errs := decodeErrors(t, w.Body.String())
	require.Len(t, errs, 1)
	assert.Equal(t, "columnName", errs[0].Field)
	assert.Equal(t, `O valor deve ser "id" ou "name"`, errs[0].Message)
}

func TestArtistIndexReturnsEnvelope(t *testing.T) {
	svc := &fakeService{artists: map[int64]*artist.Artist{
		1: {ID: 1, Name: "Novos Baianos"},
	}}
	r := setupRouter(svc, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/artists?direction=asc&columnName=name&page=0&perPage=10", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Total    int                      `json:"total"`
		PerPage  int                      `json:"perPage"`
		Page     int                      `json:"page"`
		LastPage int                      `json:"lastPage"`
		Data     []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.LastPage)
	require.Len(t, page.Data, 1)
}

func TestArtistUpdate(t *testing.T) {
	svc := &fakeService{artists: map[int64]*artist.Artist{
		5: {ID: 5, Name: "Os Mutantes"},
	}}
	r := setupRouter(svc, map[string]bool{"artists.id.5": true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/artists/5", strings.NewReader(`{"name":"Mutantes"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Mutantes", svc.artists[5].Name)
}

func TestArtistUpdateUnknownIDIs400(t *testing.T) {
	r := setupRouter(&fakeService{artists: map[int64]*artist.Artist{}}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/artists/99", strings.NewReader(`{"name":"Alguém"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestArtistDestroy(t *testing.T) {
	svc := &fakeService{artists: map[int64]*artist.Artist{
		3: {ID: 3, Name: "Secos & Molhados"},
	}}
	r := setupRouter(svc, map[string]bool{"artists.id.3": true})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("DELETE", "/artists/3", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{3}, svc.deleted)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Artista apagado com sucesso", resp["message"])
}

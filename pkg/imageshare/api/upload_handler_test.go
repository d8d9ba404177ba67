package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/imageshare/pkg/imageshare"
	"github.com/tendant/imageshare/pkg/imageshare/api"
	memorystorage "github.com/tendant/imageshare/pkg/imageshare/storage/memory"
	"github.com/tendant/imageshare/pkg/imageshare/urlstrategy"
)

const (
	testToken    = "vercel_blob_rw_StoreABC_secret"
	testBlobHost = "https://storeabc.public.blob.vercel-storage.com/"
	testBaseURL  = "https://share.example.com"
)

type halvingCompressor struct{}

func (halvingCompressor) Compress(ctx context.Context, data []byte, contentType string) ([]byte, error) {
	return data[:(len(data)+1)/2], nil
}

type failingCompressor struct{}

func (failingCompressor) Compress(ctx context.Context, data []byte, contentType string) ([]byte, error) {
	return nil, errors.New("tinify: credentials are invalid")
}

type keylessCompressor struct{ halvingCompressor }

func (keylessCompressor) Validate() error {
	return errors.New("TINIFY_API_KEY is not configured")
}

type testServer struct {
	handler http.Handler
	store   *memorystorage.Backend
}

func newTestServer(t *testing.T, compressor imageshare.Compressor, opts api.RouterOptions) *testServer {
	t.Helper()
	store := memorystorage.New()
	svc, err := imageshare.New(
		imageshare.WithCompressor(compressor),
		imageshare.WithBlobStore(store),
		imageshare.WithURLStrategy(urlstrategy.NewVercelBlobStrategy(testToken)),
		imageshare.WithAppBaseURL(testBaseURL),
	)
	require.NoError(t, err)
	return &testServer{handler: api.NewRouter(svc, opts), store: store}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func (s *testServer) get(path string) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, path, nil))
}

// multipartRequest builds an upload request with one part under field
func multipartRequest(t *testing.T, field, fileName, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, fileName))
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeUpload(t *testing.T, rr *httptest.ResponseRecorder) api.UploadResponse {
	t.Helper()
	var resp api.UploadResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error
}

func TestUpload_AllowedTypes(t *testing.T) {
	tests := []struct {
		name        string
		fileName    string
		contentType string
		extension   string
	}{
		{name: "jpeg", fileName: "holiday.jpg", contentType: "image/jpeg", extension: ".jpg"},
		{name: "png", fileName: "diagram.png", contentType: "image/png", extension: ".png"},
		{name: "webp", fileName: "sticker.webp", contentType: "image/webp", extension: ".webp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, halvingCompressor{}, api.RouterOptions{})
			data := bytes.Repeat([]byte{0xAB}, 1000)

			rr := ts.do(multipartRequest(t, api.FileField, tt.fileName, tt.contentType, data))
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

			resp := decodeUpload(t, rr)
			assert.NotEmpty(t, resp.ID)
			assert.Equal(t, testBaseURL+"/p/"+resp.ID, resp.URL)
			assert.True(t, strings.HasPrefix(resp.BlobURL, testBlobHost+"uploads/"), resp.BlobURL)
			assert.True(t, strings.HasSuffix(resp.BlobURL, tt.extension), resp.BlobURL)
			assert.Equal(t, int64(500), resp.Size)
			assert.Equal(t, int64(1000), resp.OriginalSize)
			assert.Equal(t, 1, ts.store.Len())
		})
	}
}

func TestUpload_ContentTypeParameters(t *testing.T) {
	ts := newTestServer(t, halvingCompressor{}, api.RouterOptions{})

	rr := ts.do(multipartRequest(t, api.FileField, "photo.jpg", "IMAGE/JPEG; charset=binary", []byte("jpegdata")))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.True(t, strings.HasSuffix(decodeUpload(t, rr).BlobURL, ".jpg"))
}

func TestUpload_ClientErrors(t *testing.T) {
	tests := []struct {
		name       string
		request    func(t *testing.T) *http.Request
		wantStatus int
		wantError  string
	}{
		{
			name: "missing file field",
			request: func(t *testing.T) *http.Request {
				return multipartRequest(t, "attachment", "a.png", "image/png", []byte("png"))
			},
			wantStatus: http.StatusBadRequest,
			wantError:  imageshare.ErrMissingFile.Error(),
		},
		{
			name: "empty payload",
			request: func(t *testing.T) *http.Request {
				return multipartRequest(t, api.FileField, "a.png", "image/png", nil)
			},
			wantStatus: http.StatusBadRequest,
			wantError:  imageshare.ErrEmptyFile.Error(),
		},
		{
			name: "not multipart",
			request: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader(`{"file":"x"}`))
				req.Header.Set("Content-Type", "application/json")
				return req
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "request must be multipart/form-data",
		},
		{
			name: "gif rejected",
			request: func(t *testing.T) *http.Request {
				return multipartRequest(t, api.FileField, "anim.gif", "image/gif", []byte("GIF89a"))
			},
			wantStatus: http.StatusUnsupportedMediaType,
			wantError:  imageshare.ErrUnsupportedType.Error(),
		},
		{
			name: "missing part content type",
			request: func(t *testing.T) *http.Request {
				return multipartRequest(t, api.FileField, "a.png", "", []byte("png"))
			},
			wantStatus: http.StatusUnsupportedMediaType,
			wantError:  imageshare.ErrUnsupportedType.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, halvingCompressor{}, api.RouterOptions{})

			rr := ts.do(tt.request(t))
			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			assert.Equal(t, tt.wantError, decodeError(t, rr))
			assert.Equal(t, 0, ts.store.Len())
		})
	}
}

func TestUpload_BodyLimit(t *testing.T) {
	ts := newTestServer(t, halvingCompressor{}, api.RouterOptions{MaxUploadBytes: 1024})

	rr := ts.do(multipartRequest(t, api.FileField, "big.png", "image/png", bytes.Repeat([]byte{1}, 64<<10)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code, rr.Body.String())
	assert.Equal(t, "file is too large", decodeError(t, rr))

	rr = ts.do(multipartRequest(t, api.FileField, "small.png", "image/png", []byte("tiny")))
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestUpload_MissingAPIKey(t *testing.T) {
	ts := newTestServer(t, keylessCompressor{}, api.RouterOptions{})

	rr := ts.do(multipartRequest(t, api.FileField, "a.png", "image/png", []byte("png")))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	msg := decodeError(t, rr)
	assert.Contains(t, msg, imageshare.ErrNotConfigured.Error())
	assert.Contains(t, msg, "TINIFY_API_KEY")
	assert.Equal(t, 0, ts.store.Len())
}

func TestUpload_DownstreamFailure(t *testing.T) {
	ts := newTestServer(t, failingCompressor{}, api.RouterOptions{})

	rr := ts.do(multipartRequest(t, api.FileField, "a.jpg", "image/jpeg", []byte("jpeg")))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, decodeError(t, rr), "credentials are invalid")
	assert.Equal(t, 0, ts.store.Len())
}

func TestUpload_MethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, halvingCompressor{}, api.RouterOptions{})

	rr := ts.get("/api/upload")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

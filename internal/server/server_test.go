package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/amsavalli07/socialsync/internal/models"
	"github.com/amsavalli07/socialsync/internal/repositories"
	"github.com/amsavalli07/socialsync/internal/shared"
)

type fixture struct {
	sandbox *Sandbox
	otps    *repositories.OTPRepository
	now     time.Time
	logs    *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := shared.OpenSchema(":memory:", shared.SandboxSchema)
	if err != nil {
		t.Fatalf("failed to open sandbox schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		otps: repositories.NewOTPRepository(db),
		now:  time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
		logs: &bytes.Buffer{},
	}
	f.sandbox, err = New(db, Options{
		Secret:     "test-secret",
		BcryptCost: bcrypt.MinCost,
		Logger:     log.New(f.logs),
		Now:        func() time.Time { return f.now },
	})
	if err != nil {
		t.Fatalf("failed to build sandbox: %v", err)
	}
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body any, header ...string) (int, map[string]any) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}

	rec := httptest.NewRecorder()
	f.sandbox.ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("response is not JSON: %q", rec.Body.String())
		}
	}
	return rec.Code, out
}

func (f *fixture) signUp(t *testing.T, email, password string) {
	t.Helper()
	code, body := f.do(t, http.MethodPost, "/api/signup", models.SignUpRequest{
		Name: "Ann", Email: email, Password: password, PasswordConfirm: password,
	})
	if code != http.StatusCreated {
		t.Fatalf("signup failed: %d %v", code, body)
	}
}

func (f *fixture) signIn(t *testing.T, email, password string) map[string]any {
	t.Helper()
	code, body := f.do(t, http.MethodPost, "/api/signin", models.SignInRequest{Email: email, Password: password})
	if code != http.StatusOK {
		t.Fatalf("signin failed: %d %v", code, body)
	}
	return body
}

func TestNew(t *testing.T) {
	db, err := shared.OpenSchema(":memory:", shared.SandboxSchema)
	if err != nil {
		t.Fatalf("failed to open schema: %v", err)
	}
	defer db.Close()

	if _, err := New(db, Options{}); err == nil {
		t.Error("expected error without a secret")
	}
}

func TestAccountHandler(t *testing.T) {
	t.Run("sign up and sign in", func(t *testing.T) {
		f := newFixture(t)
		f.signUp(t, "Ann@X.com", "secret1")

		body := f.signIn(t, "ann@x.com", "secret1")
		if body["user_email"] != "ann@x.com" {
			t.Errorf("expected normalized email, got %v", body["user_email"])
		}
		if body["role"] != "user" || body["verified"] != false {
			t.Errorf("unexpected profile fields: %v", body)
		}
		if body["message"] != MessageSignedIn {
			t.Errorf("unexpected message: %v", body["message"])
		}

		issuer := NewTokenIssuer("test-secret", 0)
		issuer.now = func() time.Time { return f.now }
		claims, err := issuer.Parse(body["access_token"].(string))
		if err != nil {
			t.Fatalf("token does not verify: %v", err)
		}
		if claims.Subject != body["user_id"] || claims.Email != "ann@x.com" {
			t.Errorf("unexpected claims: %+v", claims)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newFixture(t)
		f.signUp(t, "ann@x.com", "secret1")

		code, body := f.do(t, http.MethodPost, "/api/signup", models.SignUpRequest{
			Name: "Ann", Email: "ann@x.com", Password: "secret1", PasswordConfirm: "secret1",
		})
		if code != http.StatusBadRequest || body["detail"] != DetailEmailTaken {
			t.Errorf("expected email taken, got %d %v", code, body)
		}
	})

	t.Run("sign up validation", func(t *testing.T) {
		f := newFixture(t)
		tc := []struct {
			name string
			req  models.SignUpRequest
		}{
			{"missing name", models.SignUpRequest{Email: "a@b.co", Password: "secret1", PasswordConfirm: "secret1"}},
			{"bad email", models.SignUpRequest{Name: "A", Email: "nope", Password: "secret1", PasswordConfirm: "secret1"}},
			{"short password", models.SignUpRequest{Name: "A", Email: "a@b.co", Password: "123", PasswordConfirm: "123"}},
			{"mismatch", models.SignUpRequest{Name: "A", Email: "a@b.co", Password: "secret1", PasswordConfirm: "secret2"}},
		}
		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				code, body := f.do(t, http.MethodPost, "/api/signup", tt.req)
				if code != http.StatusBadRequest {
					t.Errorf("expected 400, got %d", code)
				}
				if body["detail"] == "" {
					t.Error("expected detail")
				}
			})
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newFixture(t)
		f.signUp(t, "ann@x.com", "secret1")

		code, body := f.do(t, http.MethodPost, "/api/signin", models.SignInRequest{Email: "ann@x.com", Password: "nope"})
		if code != http.StatusUnauthorized || body["detail"] != DetailInvalidLogin {
			t.Errorf("expected 401, got %d %v", code, body)
		}
		code, _ = f.do(t, http.MethodPost, "/api/signin", models.SignInRequest{Email: "who@x.com", Password: "nope"})
		if code != http.StatusUnauthorized {
			t.Errorf("unknown email should look like a wrong password, got %d", code)
		}
	})

	t.Run("recovery flow", func(t *testing.T) {
		f := newFixture(t)
		f.signUp(t, "ann@x.com", "secret1")

		code, body := f.do(t, http.MethodPost, "/api/forgotPass", models.EmailRequest{Email: "ann@x.com"})
		if code != http.StatusOK || body["message"] != MessageOTPSent {
			t.Fatalf("forgot failed: %d %v", code, body)
		}

		otp, err := f.otps.Get("ann@x.com")
		if err != nil {
			t.Fatalf("expected stored otp: %v", err)
		}
		if len(otp.Code) != 6 {
			t.Errorf("expected six digit code, got %q", otp.Code)
		}
		if !strings.Contains(f.logs.String(), otp.Code) {
			t.Error("otp should be logged")
		}

		code, _ = f.do(t, http.MethodPost, "/api/resetPass", models.ResetPasswordRequest{
			Email: "ann@x.com", Password: "newpass", PasswordConfirm: "newpass",
		})
		if code != http.StatusBadRequest {
			t.Errorf("reset before verify should fail, got %d", code)
		}

		code, body = f.do(t, http.MethodPost, "/api/verify", models.VerifyOTPRequest{Email: "ann@x.com", OTP: "000000x"})
		if code != http.StatusBadRequest || body["detail"] != DetailInvalidOTP {
			t.Errorf("expected invalid otp, got %d %v", code, body)
		}

		code, _ = f.do(t, http.MethodPost, "/api/verify", models.VerifyOTPRequest{Email: "ann@x.com", OTP: otp.Code})
		if code != http.StatusOK {
			t.Fatalf("verify failed: %d", code)
		}

		code, body = f.do(t, http.MethodPost, "/api/resetPass", models.ResetPasswordRequest{
			Email: "ann@x.com", Password: "newpass", PasswordConfirm: "newpass",
		})
		if code != http.StatusOK || body["message"] != MessagePasswordReset {
			t.Fatalf("reset failed: %d %v", code, body)
		}

		if _, err := f.otps.Get("ann@x.com"); err == nil {
			t.Error("otp should be discarded after reset")
		}
		f.signIn(t, "ann@x.com", "newpass")
	})

	t.Run("expired otp", func(t *testing.T) {
		f := newFixture(t)
		f.signUp(t, "ann@x.com", "secret1")
		f.do(t, http.MethodPost, "/api/forgotPass", models.EmailRequest{Email: "ann@x.com"})
		otp, _ := f.otps.Get("ann@x.com")

		f.now = f.now.Add(time.Hour)
		code, _ := f.do(t, http.MethodPost, "/api/verify", models.VerifyOTPRequest{Email: "ann@x.com", OTP: otp.Code})
		if code != http.StatusBadRequest {
			t.Errorf("expected expired code to fail, got %d", code)
		}
	})

	t.Run("forgot unknown email", func(t *testing.T) {
		f := newFixture(t)
		code, body := f.do(t, http.MethodPost, "/api/forgotPass", models.EmailRequest{Email: "who@x.com"})
		if code != http.StatusNotFound || body["detail"] != DetailUserNotFound {
			t.Errorf("expected 404, got %d %v", code, body)
		}
	})

	t.Run("update password", func(t *testing.T) {
		f := newFixture(t)
		f.signUp(t, "ann@x.com", "secret1")
		token := f.signIn(t, "ann@x.com", "secret1")["access_token"].(string)

		req := models.ChangePasswordRequest{
			Email: "ann@x.com", OldPassword: "secret1", Password: "secret2", PasswordConfirm: "secret2",
		}

		code, _ := f.do(t, http.MethodPost, "/api/updatePass", req)
		if code != http.StatusUnauthorized {
			t.Errorf("expected 401 without token, got %d", code)
		}
		code, _ = f.do(t, http.MethodPost, "/api/updatePass", req, "Authorization", "Bearer garbage")
		if code != http.StatusUnauthorized {
			t.Errorf("expected 401 with bad token, got %d", code)
		}

		wrong := req
		wrong.OldPassword = "nope"
		code, body := f.do(t, http.MethodPost, "/api/updatePass", wrong, "Authorization", "Bearer "+token)
		if code != http.StatusBadRequest || body["detail"] != DetailWrongPassword {
			t.Errorf("expected wrong password, got %d %v", code, body)
		}

		other := req
		other.Email = "bob@x.com"
		code, _ = f.do(t, http.MethodPost, "/api/updatePass", other, "Authorization", "Bearer "+token)
		if code != http.StatusForbidden {
			t.Errorf("expected 403 for another account, got %d", code)
		}

		code, body = f.do(t, http.MethodPost, "/api/updatePass", req, "Authorization", "Bearer "+token)
		if code != http.StatusOK || body["message"] != MessagePasswordUpdate {
			t.Fatalf("update failed: %d %v", code, body)
		}
		f.signIn(t, "ann@x.com", "secret2")
	})
}

func TestCredentialHandler(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, "ann@x.com", "secret1")
	userID := f.signIn(t, "ann@x.com", "secret1")["user_id"].(string)

	code, body := f.do(t, http.MethodGet, "/api/get-instagram-credentials/"+userID, nil)
	if code != http.StatusNotFound || body["detail"] != DetailCredentialsNotFound {
		t.Fatalf("expected 404 before save, got %d %v", code, body)
	}

	ig := models.InstagramCredentials{UserID: userID, AccessToken: "tok", IGUserID: "178"}
	code, _ = f.do(t, http.MethodPut, "/api/edit-instagram-credentials/", ig)
	if code != http.StatusNotFound {
		t.Errorf("edit before save should be 404, got %d", code)
	}

	code, _ = f.do(t, http.MethodPost, "/api/save-instagram-credentials/", ig)
	if code != http.StatusCreated {
		t.Fatalf("save failed: %d", code)
	}
	code, _ = f.do(t, http.MethodPost, "/api/save-instagram-credentials/", ig)
	if code != http.StatusConflict {
		t.Errorf("second save should conflict, got %d", code)
	}

	code, body = f.do(t, http.MethodGet, "/api/get-instagram-credentials/"+userID, nil)
	if code != http.StatusOK || body["ACCESS_TOKENS"] != "tok" || body["IG_USER_ID"] != "178" {
		t.Errorf("unexpected record: %d %v", code, body)
	}

	ig.AccessToken = "tok2"
	code, _ = f.do(t, http.MethodPut, "/api/edit-instagram-credentials/", ig)
	if code != http.StatusOK {
		t.Fatalf("edit failed: %d", code)
	}
	_, body = f.do(t, http.MethodGet, "/api/get-instagram-credentials/"+userID, nil)
	if body["ACCESS_TOKENS"] != "tok2" {
		t.Errorf("expected replaced token, got %v", body)
	}

	t.Run("both", func(t *testing.T) {
		both := models.BothCredentials{
			UserID:    userID,
			Instagram: &models.InstagramCredentials{UserID: userID, AccessToken: "a", IGUserID: "b"},
			Facebook:  &models.FacebookCredentials{UserID: userID, PageID: "p", AccessToken: "f"},
		}
		code, _ := f.do(t, http.MethodPost, "/api/save-credentials/", both)
		if code != http.StatusCreated {
			t.Fatalf("save failed: %d", code)
		}
		code, body := f.do(t, http.MethodGet, "/api/get-credentials/"+userID, nil)
		fb, _ := body["facebook_credentials"].(map[string]any)
		if code != http.StatusOK || fb["PAGE_ID"] != "p" {
			t.Errorf("unexpected record: %d %v", code, body)
		}
	})

	t.Run("validation and ownership", func(t *testing.T) {
		code, _ := f.do(t, http.MethodPost, "/api/save-facebook-credentials/", models.FacebookCredentials{UserID: userID})
		if code != http.StatusUnprocessableEntity {
			t.Errorf("expected 422 for empty record, got %d", code)
		}
		code, body := f.do(t, http.MethodPost, "/api/save-facebook-credentials/",
			models.FacebookCredentials{UserID: "ghost", PageID: "p", AccessToken: "f"})
		if code != http.StatusNotFound || body["detail"] != DetailUserNotFound {
			t.Errorf("expected unknown user, got %d %v", code, body)
		}
	})
}

func pngBase64(t *testing.T, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestPostHandler(t *testing.T) {
	t.Run("upload", func(t *testing.T) {
		f := newFixture(t)
		code, body := f.do(t, http.MethodPost, "/api/upload-socialmedia/", models.PostRequest{
			Caption: "hello", Image: pngBase64(t, 32, 16),
		})
		if code != http.StatusOK {
			t.Fatalf("upload failed: %d %v", code, body)
		}

		data := body["data"].(map[string]any)
		media := data["cloudinary_response"].(map[string]any)
		if media["format"] != "png" || media["width"] != float64(32) || media["height"] != float64(16) {
			t.Errorf("unexpected media: %v", media)
		}
		if !strings.HasSuffix(media["secure_url"].(string), ".png") {
			t.Errorf("unexpected url: %v", media["secure_url"])
		}
		for _, key := range []string{"instagram_response", "facebook_response", "twitter_response", "linkedin_response"} {
			if _, ok := data[key]; !ok {
				t.Errorf("missing %s", key)
			}
		}
		if data["caption"] != "hello" {
			t.Errorf("unexpected caption: %v", data["caption"])
		}

		posts, err := f.sandbox.Posts().List(10)
		if err != nil {
			t.Fatalf("failed to list posts: %v", err)
		}
		if len(posts) != 1 || posts[0].Width() != 32 {
			t.Errorf("expected one recorded post, got %d", len(posts))
		}
	})

	t.Run("rejections", func(t *testing.T) {
		f := newFixture(t)
		tc := []struct {
			name string
			req  models.PostRequest
			want int
		}{
			{"not base64", models.PostRequest{Image: "!!!"}, http.StatusBadRequest},
			{"empty", models.PostRequest{}, http.StatusBadRequest},
			{"not an image", models.PostRequest{Image: base64.StdEncoding.EncodeToString([]byte("plain text"))}, http.StatusUnsupportedMediaType},
			{"caption too long", models.PostRequest{Caption: strings.Repeat("x", 281), Image: pngBase64(t, 1, 1)}, http.StatusBadRequest},
		}
		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				code, body := f.do(t, http.MethodPost, "/api/upload-socialmedia/", tt.req)
				if code != tt.want {
					t.Errorf("expected %d, got %d %v", tt.want, code, body)
				}
			})
		}
	})
}

func TestRouter(t *testing.T) {
	f := newFixture(t)

	t.Run("unknown path", func(t *testing.T) {
		code, body := f.do(t, http.MethodGet, "/api/nope", nil)
		if code != http.StatusNotFound || body["detail"] != "Not Found" {
			t.Errorf("expected JSON 404, got %d %v", code, body)
		}
	})

	t.Run("wrong method", func(t *testing.T) {
		code, _ := f.do(t, http.MethodGet, "/api/signin", nil)
		if code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", code)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/signin", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		f.sandbox.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/get-credentials/x", nil)
		req.Header.Set(RequestIDHeader, "abc")
		rec := httptest.NewRecorder()
		f.sandbox.ServeHTTP(rec, req)
		if rec.Header().Get(RequestIDHeader) != "abc" {
			t.Errorf("expected request id to be echoed, got %q", rec.Header().Get(RequestIDHeader))
		}

		rec = httptest.NewRecorder()
		f.sandbox.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/get-credentials/x", nil))
		if len(rec.Header().Get(RequestIDHeader)) != 36 {
			t.Errorf("expected generated uuid, got %q", rec.Header().Get(RequestIDHeader))
		}
		if !strings.Contains(f.logs.String(), "request_id") {
			t.Error("expected request log line")
		}
	})
}

package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvoss/strongbox/internal/model"
	"github.com/nvoss/strongbox/internal/testutil"
)

type fakeLock struct {
	state      model.SafeState
	testResult bool
	err        error

	called   string
	password string
	duration time.Duration
	lock1    string
	lock2    string
}

func (f *fakeLock) Status() model.SafeState { return f.state }

func (f *fakeLock) TestUnlock(_ context.Context, password string) bool {
	f.called, f.password = "testUnlock", password
	return f.testResult
}

func (f *fakeLock) UnlockOnce(_ context.Context, password string) error {
	f.called, f.password = "unlockOnce", password
	return f.err
}

func (f *fakeLock) UnlockPermanent(_ context.Context, password string) error {
	f.called, f.password = "unlockPermanent", password
	return f.err
}

func (f *fakeLock) Open(_ context.Context, duration time.Duration) error {
	f.called, f.duration = "open", duration
	return f.err
}

func (f *fakeLock) Lock(_ context.Context, new1, new2 string) error {
	f.called, f.lock1, f.lock2 = "lock", new1, new2
	return f.err
}

type fakeProvision struct {
	err error

	called   string
	username string
	password string
	ssid     string
}

func (f *fakeProvision) ApplyAuth(_ context.Context, username, password string) error {
	f.called, f.username, f.password = "applyAuth", username, password
	return f.err
}

func (f *fakeProvision) ApplyWiFi(_ context.Context, ssid, password string) error {
	f.called, f.ssid, f.password = "applyWiFi", ssid, password
	return f.err
}

func postForm(t *testing.T, h http.HandlerFunc, values url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/safe/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestSafe_Status(t *testing.T) {
	lock := &fakeLock{state: model.StateUnlockedPermanent}
	h := NewSafe(lock, &fakeProvision{}, testutil.MakeNoopLogger())

	rec := httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest(http.MethodGet, "/safe/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNLOCKED until explicitly locked")
}

func TestSafe_Dispatch(t *testing.T) {
	tests := []struct {
		name       string
		form       url.Values
		lock       fakeLock
		provision  fakeProvision
		wantCode   int
		wantCalled string
		wantBody   string
		checkArgs  func(t *testing.T, lock *fakeLock, provision *fakeProvision)
	}{
		{
			name:     "status",
			form:     url.Values{"status": {"Status"}},
			lock:     fakeLock{state: model.StateLocked},
			wantCode: http.StatusOK,
			wantBody: "Safe is LOCKED",
		},
		{
			name:       "open",
			form:       url.Values{"open": {"Open"}, "duration": {"10"}},
			wantCode:   http.StatusOK,
			wantCalled: "open",
			wantBody:   "door open for 10 seconds",
			checkArgs: func(t *testing.T, lock *fakeLock, _ *fakeProvision) {
				assert.Equal(t, 10*time.Second, lock.duration)
			},
		},
		{
			name:     "open with non-numeric duration",
			form:     url.Values{"open": {"Open"}, "duration": {"soon"}},
			wantCode: http.StatusConflict,
		},
		{
			name:     "open rejected while locked",
			form:     url.Values{"open": {"Open"}, "duration": {"5"}},
			lock:     fakeLock{err: model.ErrStillLocked},
			wantCode: http.StatusConflict,
		},
		{
			name:       "pwtest match",
			form:       url.Values{"pwtest": {"Test"}, "unlock": {"123456"}},
			lock:       fakeLock{testResult: true},
			wantCode:   http.StatusOK,
			wantCalled: "testUnlock",
			wantBody:   "unlock password matches",
		},
		{
			name:       "pwtest mismatch",
			form:       url.Values{"pwtest": {"Test"}, "unlock": {"000000"}},
			wantCode:   http.StatusOK,
			wantCalled: "testUnlock",
			wantBody:   "does not match",
		},
		{
			name:       "unlock once",
			form:       url.Values{"unlock_1": {"Unlock"}, "unlock": {"123456"}},
			wantCode:   http.StatusOK,
			wantCalled: "unlockOnce",
			checkArgs: func(t *testing.T, lock *fakeLock, _ *fakeProvision) {
				assert.Equal(t, "123456", lock.password)
			},
		},
		{
			name:     "unlock once with wrong password",
			form:     url.Values{"unlock_1": {"Unlock"}, "unlock": {"000000"}},
			lock:     fakeLock{err: model.ErrWrongPassword},
			wantCode: http.StatusConflict,
		},
		{
			name:       "unlock permanent",
			form:       url.Values{"unlock_all": {"Unlock"}, "unlock": {"123456"}},
			wantCode:   http.StatusOK,
			wantCalled: "unlockPermanent",
		},
		{
			name:       "lock with new password",
			form:       url.Values{"lock": {"Lock"}, "lock1": {"654321"}, "lock2": {"654321"}},
			wantCode:   http.StatusOK,
			wantCalled: "lock",
			checkArgs: func(t *testing.T, lock *fakeLock, _ *fakeProvision) {
				assert.Equal(t, "654321", lock.lock1)
				assert.Equal(t, "654321", lock.lock2)
			},
		},
		{
			name:     "lock with mismatched passwords",
			form:     url.Values{"lock": {"Lock"}, "lock1": {"654321"}, "lock2": {"123456"}},
			lock:     fakeLock{err: model.ErrPasswordMismatch},
			wantCode: http.StatusBadRequest,
		},
		{
			name:       "setauth",
			form:       url.Values{"setauth": {"Change"}, "username": {"root"}, "password": {"hunter2"}},
			wantCode:   http.StatusOK,
			wantCalled: "applyAuth",
			checkArgs: func(t *testing.T, _ *fakeLock, provision *fakeProvision) {
				assert.Equal(t, "root", provision.username)
				assert.Equal(t, "hunter2", provision.password)
			},
		},
		{
			name:     "no operation field",
			form:     url.Values{"duration": {"10"}},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lock := tt.lock
			provision := tt.provision
			h := NewSafe(&lock, &provision, testutil.MakeNoopLogger())

			rec := postForm(t, h.Dispatch, tt.form)

			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
			if tt.wantCalled != "" {
				called := lock.called
				if called == "" {
					called = provision.called
				}
				assert.Equal(t, tt.wantCalled, called)
			}
			if tt.checkArgs != nil {
				tt.checkArgs(t, &lock, &provision)
			}
		})
	}
}

func TestSafe_Dispatch_MultipartForm(t *testing.T) {
	lock := &fakeLock{}
	h := NewSafe(lock, &fakeProvision{}, testutil.MakeNoopLogger())

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("open", "Open"))
	require.NoError(t, form.WriteField("duration", "30"))
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/safe/", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Dispatch(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "open", lock.called)
	assert.Equal(t, 30*time.Second, lock.duration)
}

func TestSafe_ChangeWiFi(t *testing.T) {
	lock := &fakeLock{}
	provision := &fakeProvision{}
	h := NewSafe(lock, provision, testutil.MakeNoopLogger())

	rec := postForm(t, h.ChangeWiFi, url.Values{
		"setwifi":  {"Change"},
		"ssid":     {"homenet"},
		"password": {"wifipass"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "applyWiFi", provision.called)
	assert.Equal(t, "homenet", provision.ssid)
	assert.Equal(t, "wifipass", provision.password)
	assert.Contains(t, rec.Body.String(), "reboot")
}

func TestSafe_ChangeWiFi_MissingField(t *testing.T) {
	provision := &fakeProvision{}
	h := NewSafe(&fakeLock{}, provision, testutil.MakeNoopLogger())

	rec := postForm(t, h.ChangeWiFi, url.Values{"ssid": {"homenet"}})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, provision.called)
}

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nexus/zapcampaign/config"
	"github.com/nexus/zapcampaign/internal/models"
	"github.com/nexus/zapcampaign/internal/store"
	"github.com/nexus/zapcampaign/internal/whatsapp"
)

// stubSession is a minimal in-memory Session.
type stubSession struct {
	mu        sync.Mutex
	contacts  []models.Contact
	texts     []string
	polls     []string
	groups    []string
	sendErr   error
	createErr error
	qr        string
	connected bool
}

func (s *stubSession) Contacts(ctx context.Context) ([]models.Contact, error) {
	return s.contacts, nil
}

func (s *stubSession) SendText(ctx context.Context, to, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendErr != nil {
		return "", s.sendErr
	}
	s.texts = append(s.texts, to+"|"+text)
	return "ID-1", nil
}

func (s *stubSession) SendPoll(ctx context.Context, to string, poll models.Poll) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polls = append(s.polls, to+"|"+poll.Question)
	return "ID-2", nil
}

func (s *stubSession) CreateGroup(ctx context.Context, name string, participants []string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return "", s.createErr
	}
	s.groups = append(s.groups, name)
	return name + "@g.us", nil
}

func (s *stubSession) SetGroupDescription(context.Context, string, string) error { return nil }
func (s *stubSession) PromoteParticipants(context.Context, string, []string) error { return nil }
func (s *stubSession) SetGroupInfoAdminsOnly(context.Context, string, bool) error { return nil }
func (s *stubSession) SetGroupPhoto(context.Context, string, []byte) error { return nil }
func (s *stubSession) Connected() bool { return s.connected }
func (s *stubSession) QRCode() (string, bool) { return s.qr, s.qr != "" }
func (s *stubSession) Logout(context.Context) error { return nil }

func newStubSession() *stubSession {
	return &stubSession{
		contacts: []models.Contact{
			{DisplayName: "Ana", EndpointID: "551100000001@s.whatsapp.net"},
			{PushName: "Beto", EndpointID: "551100000002@s.whatsapp.net"},
		},
		connected: true,
	}
}

func setupTestApp(t *testing.T, session whatsapp.Session, apiKey string) *fiber.App {
	t.Helper()

	cfg := &config.Config{GlobalApiKey: apiKey, BodyLimitMB: 5}
	tasks, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { tasks.Close() })

	svc := whatsapp.NewService(session, zap.NewNop(),
		whatsapp.WithSleeper(func(ctx context.Context, d time.Duration) error { return ctx.Err() }),
		whatsapp.WithPhotoReader(func(string) ([]byte, error) { return []byte{0xff, 0xd8}, nil }),
	)
	return NewServer(cfg, svc, tasks, zap.NewNop())
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	return decode(t, app, req)
}

func decode(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestHealth(t *testing.T) {
	app := setupTestApp(t, newStubSession(), "secret")

	code, body := doJSON(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestAPIKeyRequired(t *testing.T) {
	app := setupTestApp(t, newStubSession(), "secret")

	code, _ := doJSON(t, app, http.MethodGet, "/connectionStatus", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := doJSON(t, app, http.MethodGet, "/connectionStatus?apikey=secret", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["connected"])
}

func TestSendByNumber(t *testing.T) {
	session := newStubSession()
	app := setupTestApp(t, session, "")

	code, body := doJSON(t, app, http.MethodGet, "/send?number=%2B55+11+99999-0000&message=oi", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Message sent", body["status"])
	assert.Equal(t, []string{"5511999990000@s.whatsapp.net|oi"}, session.texts)

	code, body = doJSON(t, app, http.MethodGet, "/send?number=abc&message=oi", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Failed to send message", body["status"])
	assert.Contains(t, body["error"], "invalid phone number")
}

func TestSendMessageReportsOutcomes(t *testing.T) {
	session := newStubSession()
	app := setupTestApp(t, session, "")

	code, body := doJSON(t, app, http.MethodPost, "/sendMessage", models.SendMessagesRequest{
		Names:   []string{"Ana", "Beto", "Zé"},
		Message: "oi",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Messages sent", body["status"])

	results := body["results"].(map[string]any)
	assert.EqualValues(t, 2, results["sent"])
	assert.EqualValues(t, 1, results["notFound"])
	assert.Len(t, results["outcomes"], 3)
}

func TestSendBulkIsSendMessage(t *testing.T) {
	session := newStubSession()
	app := setupTestApp(t, session, "")

	code, body := doJSON(t, app, http.MethodPost, "/sendBulk", models.SendMessagesRequest{
		Names:   []string{"Ana", "Beto"},
		Message: "aviso",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Messages sent", body["status"])
	assert.Equal(t, []string{
		"551100000001@s.whatsapp.net|aviso",
		"551100000002@s.whatsapp.net|aviso",
	}, session.texts)
}

func TestSendMessageSendFailuresStay200(t *testing.T) {
	session := newStubSession()
	session.sendErr = errors.New("offline")
	app := setupTestApp(t, session, "")

	code, body := doJSON(t, app, http.MethodPost, "/sendMessage", models.SendMessagesRequest{Names: []string{"Ana"}, Message: "oi"})
	assert.Equal(t, http.StatusOK, code)
	results := body["results"].(map[string]any)
	assert.EqualValues(t, 1, results["failed"])
}

func TestSendMessageValidation(t *testing.T) {
	app := setupTestApp(t, newStubSession(), "")

	code, body := doJSON(t, app, http.MethodPost, "/sendMessage", models.SendMessagesRequest{Message: "oi"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Failed to send messages", body["status"])

	req := httptest.NewRequest(http.MethodPost, "/sendMessage", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	code, body = decode(t, app, req)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid JSON", body["error"])
}

func TestSendPollEmptyOptions(t *testing.T) {
	session := newStubSession()
	app := setupTestApp(t, session, "")

	code, body := doJSON(t, app, http.MethodPost, "/sendPoll", models.SendPollRequest{
		Names:        []string{"Ana"},
		PollQuestion: "Vem?",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Failed to send poll", body["status"])
	assert.Empty(t, session.polls)
}

func TestSendMessageAndPoll(t *testing.T) {
	session := newStubSession()
	app := setupTestApp(t, session, "")

	code, body := doJSON(t, app, http.MethodPost, "/sendMessageAndPoll", models.SendMessageAndPollRequest{
		Names:        []string{"Beto"},
		Message:      "convite",
		PollQuestion: "Vem?",
		PollOptions:  []string{"Sim", "Não"},
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Message and poll sent", body["status"])
	assert.Equal(t, []string{"551100000002@s.whatsapp.net|convite"}, session.texts)
	assert.Equal(t, []string{"551100000002@s.whatsapp.net|Vem?"}, session.polls)
}

func TestCreateGroupRoute(t *testing.T) {
	session := newStubSession()
	app := setupTestApp(t, session, "")

	code, body := doJSON(t, app, http.MethodPost, "/createGroup", models.CreateGroupRequest{
		GroupName: "Equipe",
		Names:     []string{"Ana"},
		Admins:    []string{"Ana"},
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Group created", body["status"])
	assert.Equal(t, "Equipe@g.us", body["groupId"])

	code, body = doJSON(t, app, http.MethodPost, "/createGroup", models.CreateGroupRequest{
		GroupName: "Vazio",
		Names:     []string{"Zé"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "Failed to create group", body["status"])
	assert.Equal(t, []string{"Equipe"}, session.groups)
}

func TestCreateGroupCollaboratorFailure(t *testing.T) {
	session := newStubSession()
	session.createErr = errors.New("not-authorized")
	app := setupTestApp(t, session, "")

	code, body := doJSON(t, app, http.MethodPost, "/createGroup", models.CreateGroupRequest{GroupName: "G", Names: []string{"Ana"}})
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "not-authorized", body["error"])
}

func TestCreateMultipleGroupsRoute(t *testing.T) {
	session := newStubSession()
	app := setupTestApp(t, session, "")

	code, body := doJSON(t, app, http.MethodPost, "/createMultipleGroups", models.CreateMultipleGroupsRequest{
		GroupNames: []string{"G1", "G2"},
		Names:      []string{"Ana", "Beto"},
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Groups created", body["status"])
	assert.Len(t, body["results"], 2)
	assert.Equal(t, []string{"G1", "G2"}, session.groups)

	code, body = doJSON(t, app, http.MethodPost, "/createMultipleGroups", models.CreateMultipleGroupsRequest{
		GroupNames:  []string{"G3"},
		Names:       []string{"Ana"},
		MinInterval: 10,
		MaxInterval: 1,
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Failed to create groups", body["status"])
	assert.Len(t, session.groups, 2)
}

func TestProcessGroupDataRoute(t *testing.T) {
	session := newStubSession()
	app := setupTestApp(t, session, "")

	raw := `{"data":[
		{"pessoa":"Ana","evento":"Arraiá","mensagem1":"Bem-vindos"},
		{"person":"Beto","eventKey":"Arraiá","mensagem2":"Escala amanhã"}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/process-group-data", strings.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	code, body := decode(t, app, req)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Groups created and messages sent", body["status"])
	assert.Equal(t, []string{"Arraiá"}, session.groups)
	assert.Equal(t, []string{"Arraiá@g.us|Bem-vindos", "Arraiá@g.us|Escala amanhã"}, session.texts)
}

func TestSendGroupMessageRoute(t *testing.T) {
	session := newStubSession()
	app := setupTestApp(t, session, "")

	code, body := doJSON(t, app, http.MethodPost, "/sendGroupMessage", models.SendGroupMessageRequest{GroupID: "120363@g.us", Message: "oi"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Message sent to group", body["status"])

	code, _ = doJSON(t, app, http.MethodPost, "/sendGroupMessage", models.SendGroupMessageRequest{Message: "oi"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSessionRoutes(t *testing.T) {
	session := newStubSession()
	session.connected = false
	app := setupTestApp(t, session, "")

	code, _ := doJSON(t, app, http.MethodGet, "/getQRCode", nil)
	assert.Equal(t, http.StatusNotFound, code)

	session.qr = "2@pairing-ref"
	code, body := doJSON(t, app, http.MethodGet, "/getQRCode", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "2@pairing-ref", body["qrCode"])
	assert.True(t, strings.HasPrefix(body["image"].(string), "data:image/png;base64,"))

	code, body = doJSON(t, app, http.MethodGet, "/connectionStatus", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["connected"])

	code, body = doJSON(t, app, http.MethodGet, "/listContacts", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, body["contacts"], 2)
}

func TestUploadAndListTasks(t *testing.T) {
	app := setupTestApp(t, newStubSession(), "")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "escala.json")
	require.NoError(t, err)
	_, err = part.Write([]byte(`[{"Task ID": "1", "Task Name": "Festival"}, {"Task ID": "2", "Task Name": "Feira"}]`))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	code, body := decode(t, app, req)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Data stored in database", body["status"])
	assert.EqualValues(t, 2, body["count"])
	lote := body["lote"].(string)
	assert.True(t, strings.HasPrefix(lote, "Lote_"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/tasks/"+lote, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var tasks []models.Task
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tasks))
	require.Len(t, tasks, 2)
	assert.Equal(t, "Festival", tasks[0].TaskName)
}

func TestUploadWithoutFile(t *testing.T) {
	app := setupTestApp(t, newStubSession(), "")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("note", "sem arquivo"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	code, body := decode(t, app, req)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "No file uploaded", body["error"])
}

func TestUploadBadFile(t *testing.T) {
	app := setupTestApp(t, newStubSession(), "")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "escala.json")
	require.NoError(t, err)
	_, err = part.Write([]byte("not json"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	code, body := decode(t, app, req)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Failed to process the file", body["error"])
}

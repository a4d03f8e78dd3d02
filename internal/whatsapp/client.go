package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/skip2/go-qrcode"
	"go.mau.fi/whatsmeow"
	waProto "go.mau.fi/whatsmeow/binary/proto"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"

	"github.com/nexus/zapcampaign/internal/models"
)

type ClientConfig struct {
	DBPath      string
	CallTimeout time.Duration
	QRTerminal  bool
}

// Client is the whatsmeow-backed Session. One device, one connection per
// process.
type Client struct {
	wa      *whatsmeow.Client
	log     *zap.Logger
	timeout time.Duration
	printQR bool

	mu sync.RWMutex
	qr string
}

func NewClient(ctx context.Context, cfg ClientConfig, log *zap.Logger) (*Client, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create session dir: %w", err)
		}
	}

	// WAL keeps the store responsive while whatsmeow writes keys in the background
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=10000&_journal_mode=WAL", cfg.DBPath)
	container, err := sqlstore.New(ctx, "sqlite3", dsn, newWALogger(log, "database"))
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("load device: %w", err)
	}
	if device == nil {
		device = container.NewDevice()
	}

	c := &Client{
		wa:      whatsmeow.NewClient(device, newWALogger(log, "client")),
		log:     log,
		timeout: cfg.CallTimeout,
		printQR: cfg.QRTerminal,
	}
	c.wa.AddEventHandler(c.handleEvent)
	return c, nil
}

// --- LIFECYCLE ---

// Start connects the session. Without a paired device it starts the QR
// flow; the current code is then available through QRCode until the phone
// scans it.
func (c *Client) Start(ctx context.Context) error {
	if c.wa.Store.ID != nil {
		c.log.Info("restoring session", zap.String("jid", c.wa.Store.ID.String()))
		return c.wa.Connect()
	}

	qrChan, err := c.wa.GetQRChannel(ctx)
	if err != nil {
		return fmt.Errorf("qr channel: %w", err)
	}
	if err := c.wa.Connect(); err != nil {
		return err
	}

	go func() {
		for item := range qrChan {
			switch item.Event {
			case whatsmeow.QRChannelEventCode:
				c.setQR(item.Code)
				c.log.Info("qr", zap.Duration("expires_in", item.Timeout))
				if c.printQR {
					c.printTerminalQR(item.Code)
				}
			case whatsmeow.QRChannelSuccess.Event:
				c.setQR("")
			case whatsmeow.QRChannelTimeout.Event:
				c.setQR("")
				c.log.Error("auth_failure", zap.String("reason", "qr timeout"))
			case whatsmeow.QRChannelEventError:
				c.setQR("")
				c.log.Error("auth_failure", zap.Error(item.Error))
			default:
				c.log.Warn("auth_failure", zap.String("reason", item.Event))
			}
		}
	}()
	return nil
}

func (c *Client) Close() {
	c.wa.Disconnect()
}

// Logout unlinks the device. A new QR pairing is required afterwards.
func (c *Client) Logout(ctx context.Context) error {
	ctx, cancel := c.call(ctx)
	defer cancel()
	return c.wa.Logout(ctx)
}

func (c *Client) handleEvent(evt interface{}) {
	switch v := evt.(type) {
	case *events.Connected:
		c.setQR("")
		c.log.Info("ready")
	case *events.PairSuccess:
		c.log.Info("paired", zap.String("jid", v.ID.String()), zap.String("platform", v.Platform))
	case *events.LoggedOut:
		c.log.Warn("disconnected", zap.String("reason", v.Reason.String()), zap.Bool("on_connect", v.OnConnect))
	case *events.Disconnected:
		c.log.Warn("disconnected")
	case *events.ConnectFailure:
		c.log.Error("auth_failure", zap.String("reason", v.Reason.String()), zap.String("message", v.Message))
	case *events.ClientOutdated:
		c.log.Error("auth_failure", zap.String("reason", "client outdated"))
	}
}

func (c *Client) setQR(code string) {
	c.mu.Lock()
	c.qr = code
	c.mu.Unlock()
}

func (c *Client) QRCode() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.qr, c.qr != ""
}

func (c *Client) Connected() bool {
	return c.wa != nil && c.wa.IsConnected() && c.wa.IsLoggedIn()
}

func (c *Client) printTerminalQR(code string) {
	q, err := qrcode.New(code, qrcode.Low)
	if err != nil {
		c.log.Warn("render qr", zap.Error(err))
		return
	}
	fmt.Println(q.ToSmallString(false))
}

// --- CONTACTS ---

// Contacts returns the address book ordered by JID. Group JIDs are left
// out.
func (c *Client) Contacts(ctx context.Context) ([]models.Contact, error) {
	if !c.Connected() {
		return nil, ErrNotConnected
	}
	ctx, cancel := c.call(ctx)
	defer cancel()

	all, err := c.wa.Store.Contacts.GetAllContacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load contacts: %w", err)
	}

	contacts := make([]models.Contact, 0, len(all))
	for jid, info := range all {
		if jid.Server == types.GroupServer {
			continue
		}
		contacts = append(contacts, models.Contact{
			DisplayName: info.FullName,
			PushName:    info.PushName,
			ShortName:   info.FirstName,
			EndpointID:  jid.String(),
		})
	}
	sort.Slice(contacts, func(i, j int) bool { return contacts[i].EndpointID < contacts[j].EndpointID })
	return contacts, nil
}

// --- SENDING ---

func (c *Client) SendText(ctx context.Context, to, text string) (string, error) {
	jid, err := c.target(to)
	if err != nil {
		return "", err
	}
	ctx, cancel := c.call(ctx)
	defer cancel()

	resp, err := c.wa.SendMessage(ctx, jid, &waProto.Message{Conversation: proto.String(text)})
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *Client) SendPoll(ctx context.Context, to string, poll models.Poll) (string, error) {
	jid, err := c.target(to)
	if err != nil {
		return "", err
	}
	secret, err := pollSecret(poll.MessageSecret)
	if err != nil {
		return "", err
	}

	msg := c.wa.BuildPollCreation(poll.Question, poll.Options, selectableCount(poll.AllowMultiple))
	if secret != nil && msg.MessageContextInfo != nil {
		msg.MessageContextInfo.MessageSecret = secret
	}

	ctx, cancel := c.call(ctx)
	defer cancel()
	resp, err := c.wa.SendMessage(ctx, jid, msg)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

// --- GROUPS ---

// whatsmeow's group calls take no context. They are bounded by the
// library's own request timeout, not WA_CALL_TIMEOUT; ctx is only checked
// before each call.

func (c *Client) CreateGroup(ctx context.Context, name string, participants []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !c.Connected() {
		return "", ErrNotConnected
	}
	jids, err := parseJIDs(participants)
	if err != nil {
		return "", err
	}

	info, err := c.wa.CreateGroup(whatsmeow.ReqCreateGroup{Name: name, Participants: jids})
	if err != nil {
		return "", err
	}
	if info == nil {
		return "", errors.New("group creation returned no group")
	}
	return info.JID.String(), nil
}

func (c *Client) SetGroupDescription(ctx context.Context, groupID, description string) error {
	jid, err := c.groupTarget(ctx, groupID)
	if err != nil {
		return err
	}
	return c.wa.SetGroupTopic(jid, "", "", description)
}

func (c *Client) PromoteParticipants(ctx context.Context, groupID string, participants []string) error {
	jid, err := c.groupTarget(ctx, groupID)
	if err != nil {
		return err
	}
	jids, err := parseJIDs(participants)
	if err != nil {
		return err
	}

	changed, err := c.wa.UpdateGroupParticipants(jid, jids, whatsmeow.ParticipantChangePromote)
	if err != nil {
		return err
	}
	for _, p := range changed {
		if p.Error != 0 {
			return fmt.Errorf("promote %s: error code %d", p.JID, p.Error)
		}
	}
	return nil
}

func (c *Client) SetGroupInfoAdminsOnly(ctx context.Context, groupID string, adminsOnly bool) error {
	jid, err := c.groupTarget(ctx, groupID)
	if err != nil {
		return err
	}
	return c.wa.SetGroupLocked(jid, adminsOnly)
}

func (c *Client) SetGroupPhoto(ctx context.Context, groupID string, jpeg []byte) error {
	jid, err := c.groupTarget(ctx, groupID)
	if err != nil {
		return err
	}
	_, err = c.wa.SetGroupPhoto(jid, jpeg)
	return err
}

// --- HELPERS ---

func (c *Client) call(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *Client) target(id string) (types.JID, error) {
	if !c.Connected() {
		return types.EmptyJID, ErrNotConnected
	}
	return types.ParseJID(id)
}

// groupTarget is target for the group calls, which cannot be cancelled once
// started.
func (c *Client) groupTarget(ctx context.Context, id string) (types.JID, error) {
	if err := ctx.Err(); err != nil {
		return types.EmptyJID, err
	}
	return c.target(id)
}

func parseJIDs(ids []string) ([]types.JID, error) {
	jids := make([]types.JID, 0, len(ids))
	for _, id := range ids {
		jid, err := types.ParseJID(id)
		if err != nil {
			return nil, fmt.Errorf("parse jid %q: %w", id, err)
		}
		jids = append(jids, jid)
	}
	return jids, nil
}

// selectableCount maps allowMultipleAnswers onto whatsmeow's selectable
// option count, where 0 means any number.
func selectableCount(allowMultiple bool) int {
	if allowMultiple {
		return 0
	}
	return 1
}

func pollSecret(values []int) ([]byte, error) {
	if len(values) == 0 {
		return nil, nil
	}
	if len(values) != 32 {
		return nil, invalid(ErrInvalidMessageSecret, fmt.Sprintf("got %d values", len(values)))
	}
	secret := make([]byte, len(values))
	for i, v := range values {
		if v < 0 || v > 255 {
			return nil, invalid(ErrInvalidMessageSecret, fmt.Sprintf("value %d out of range", v))
		}
		secret[i] = byte(v)
	}
	return secret, nil
}

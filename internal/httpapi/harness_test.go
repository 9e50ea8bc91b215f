// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"

	"github.com/pixelhaven/pixelhaven/internal/access"
	"github.com/pixelhaven/pixelhaven/internal/admin"
	"github.com/pixelhaven/pixelhaven/internal/auth"
	"github.com/pixelhaven/pixelhaven/internal/friends"
	"github.com/pixelhaven/pixelhaven/internal/group"
	"github.com/pixelhaven/pixelhaven/internal/httpapi"
	"github.com/pixelhaven/pixelhaven/internal/identity"
	"github.com/pixelhaven/pixelhaven/internal/inventory"
)

// fakeUsers is an in-memory identity.UserRepository.
type fakeUsers struct {
	users    map[ulid.ULID]*identity.User
	settings map[ulid.ULID]*identity.Settings
	badges   map[ulid.ULID][]identity.Badge
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		users:    make(map[ulid.ULID]*identity.User),
		settings: make(map[ulid.ULID]*identity.Settings),
		badges:   make(map[ulid.ULID][]identity.Badge),
	}
}

func (f *fakeUsers) Create(_ context.Context, user *identity.User) error {
	f.users[user.ID] = user
	settings := identity.DefaultSettings(user.ID)
	f.settings[user.ID] = &settings
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id ulid.ULID) (*identity.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, identity.ErrNotFound
	}
	return user, nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*identity.User, error) {
	for _, user := range f.users {
		if strings.EqualFold(user.Username, username) {
			return user, nil
		}
	}
	return nil, identity.ErrNotFound
}

func (f *fakeUsers) Update(_ context.Context, user *identity.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return identity.ErrNotFound
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id ulid.ULID, passwordHash string) error {
	user, ok := f.users[id]
	if !ok {
		return identity.ErrNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

func (f *fakeUsers) SetBanned(_ context.Context, id ulid.ULID, banned bool) error {
	user, ok := f.users[id]
	if !ok {
		return identity.ErrNotFound
	}
	user.Banned = banned
	return nil
}

func (f *fakeUsers) AdjustCurrency(_ context.Context, id ulid.ULID, delta int64) (int64, error) {
	user, ok := f.users[id]
	if !ok {
		return 0, identity.ErrNotFound
	}
	user.Currency += delta
	if user.Currency < 0 {
		user.Currency = 0
	}
	return user.Currency, nil
}

func (f *fakeUsers) GetSettings(_ context.Context, userID ulid.ULID) (*identity.Settings, error) {
	settings, ok := f.settings[userID]
	if !ok {
		return nil, identity.ErrNotFound
	}
	return settings, nil
}

func (f *fakeUsers) Badges(_ context.Context, userID ulid.ULID) ([]identity.Badge, error) {
	return f.badges[userID], nil
}

// fakeStaff is an in-memory identity.StaffRepository.
type fakeStaff struct {
	records map[ulid.ULID]*identity.StaffRecord
}

func newFakeStaff() *fakeStaff {
	return &fakeStaff{records: make(map[ulid.ULID]*identity.StaffRecord)}
}

func (f *fakeStaff) Get(_ context.Context, userID ulid.ULID) (*identity.StaffRecord, error) {
	rec, ok := f.records[userID]
	if !ok {
		return nil, identity.ErrNotFound
	}
	return rec, nil
}

func (f *fakeStaff) Upsert(_ context.Context, rec *identity.StaffRecord) error {
	f.records[rec.UserID] = rec
	return nil
}

func (f *fakeStaff) Delete(_ context.Context, userID ulid.ULID) error {
	delete(f.records, userID)
	return nil
}

// fakeSessions is an in-memory auth.SessionRepository.
type fakeSessions struct {
	sessions map[ulid.ULID]*auth.Session
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: make(map[ulid.ULID]*auth.Session)}
}

func (f *fakeSessions) Create(_ context.Context, session *auth.Session) error {
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessions) GetByTokenHash(_ context.Context, tokenHash string) (*auth.Session, error) {
	for _, s := range f.sessions {
		if s.TokenHash == tokenHash {
			return s, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (f *fakeSessions) Touch(_ context.Context, id ulid.ULID, seenAt time.Time) error {
	if s, ok := f.sessions[id]; ok {
		s.LastSeenAt = seenAt
	}
	return nil
}

func (f *fakeSessions) Delete(_ context.Context, id ulid.ULID) error {
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessions) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for id, s := range f.sessions {
		if s.IsExpiredAt(now) {
			delete(f.sessions, id)
			n++
		}
	}
	return n, nil
}

// fakeGroups is an in-memory group.Repository joined against fakeUsers.
type fakeGroups struct {
	users   *fakeUsers
	groups  map[ulid.ULID]*group.Group
	members map[ulid.ULID]map[ulid.ULID]bool
	posts   []*group.WallPost
}

func newFakeGroups(users *fakeUsers) *fakeGroups {
	return &fakeGroups{
		users:   users,
		groups:  make(map[ulid.ULID]*group.Group),
		members: make(map[ulid.ULID]map[ulid.ULID]bool),
	}
}

func (f *fakeGroups) GetGroup(_ context.Context, id ulid.ULID) (*group.Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, group.ErrNotFound
	}
	return g, nil
}

func (f *fakeGroups) IsMember(_ context.Context, groupID, userID ulid.ULID) (bool, error) {
	return f.members[groupID][userID], nil
}

func (f *fakeGroups) AddMember(_ context.Context, m *group.Membership) error {
	if f.members[m.GroupID] == nil {
		f.members[m.GroupID] = make(map[ulid.ULID]bool)
	}
	f.members[m.GroupID][m.UserID] = true
	return nil
}

func (f *fakeGroups) RemoveMember(_ context.Context, groupID, userID ulid.ULID) error {
	delete(f.members[groupID], userID)
	return nil
}

func (f *fakeGroups) MemberCount(_ context.Context, groupID ulid.ULID) (int64, error) {
	return int64(len(f.members[groupID])), nil
}

func (f *fakeGroups) CreateWallPost(_ context.Context, post *group.WallPost) error {
	f.posts = append(f.posts, post)
	return nil
}

func (f *fakeGroups) WallPosts(_ context.Context, groupID ulid.ULID, offset, limit int) ([]group.WallRow, error) {
	var matched []*group.WallPost
	for _, p := range f.posts {
		if p.GroupID == groupID {
			matched = append(matched, p)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.Pinned != b.Pinned {
			return a.Pinned
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.Compare(b.ID) > 0
	})

	rows := make([]group.WallRow, 0, limit)
	for i := offset; i < len(matched) && i < offset+limit; i++ {
		row := group.WallRow{WallPost: *matched[i]}
		if author, ok := f.users.users[matched[i].AuthorID]; ok {
			row.AuthorUsername = author.Username
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (f *fakeGroups) CountWallPosts(_ context.Context, groupID ulid.ULID) (int64, error) {
	var n int64
	for _, p := range f.posts {
		if p.GroupID == groupID {
			n++
		}
	}
	return n, nil
}

func (f *fakeGroups) SetWallPostPinned(_ context.Context, postID ulid.ULID, pinned bool) error {
	for _, p := range f.posts {
		if p.ID == postID {
			p.Pinned = pinned
			return nil
		}
	}
	return group.ErrNotFound
}

func (f *fakeGroups) DeleteWallPost(_ context.Context, postID ulid.ULID) error {
	for i, p := range f.posts {
		if p.ID == postID {
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
			return nil
		}
	}
	return group.ErrNotFound
}

// fakeInventory is an in-memory inventory.Repository.
type fakeInventory struct {
	items   map[ulid.ULID]*inventory.Item
	entries map[ulid.ULID][]inventory.Entry
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{
		items:   make(map[ulid.ULID]*inventory.Item),
		entries: make(map[ulid.ULID][]inventory.Entry),
	}
}

func (f *fakeInventory) GetItem(_ context.Context, id ulid.ULID) (*inventory.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, inventory.ErrNotFound
	}
	return item, nil
}

func (f *fakeInventory) CreateItem(_ context.Context, item *inventory.Item) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeInventory) Grant(_ context.Context, entry *inventory.Entry) error {
	for _, e := range f.entries[entry.UserID] {
		if e.ItemID == entry.ItemID {
			return nil
		}
	}
	f.entries[entry.UserID] = append(f.entries[entry.UserID], *entry)
	return nil
}

func (f *fakeInventory) Revoke(_ context.Context, userID, itemID ulid.ULID) error {
	entries := f.entries[userID]
	for i, e := range entries {
		if e.ItemID == itemID {
			f.entries[userID] = append(entries[:i], entries[i+1:]...)
			return nil
		}
	}
	return inventory.ErrNotOwned
}

func (f *fakeInventory) Owns(_ context.Context, userID, itemID ulid.ULID) (bool, error) {
	for _, e := range f.entries[userID] {
		if e.ItemID == itemID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeInventory) Entries(_ context.Context, userID ulid.ULID, itemType inventory.ItemType, offset, limit int) ([]inventory.Row, error) {
	rows := f.visibleRows(userID, itemType)
	if offset >= len(rows) {
		return []inventory.Row{}, nil
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end], nil
}

func (f *fakeInventory) CountEntries(_ context.Context, userID ulid.ULID, itemType inventory.ItemType) (int64, error) {
	return int64(len(f.visibleRows(userID, itemType))), nil
}

func (f *fakeInventory) visibleRows(userID ulid.ULID, itemType inventory.ItemType) []inventory.Row {
	var rows []inventory.Row
	for _, e := range f.entries[userID] {
		item := f.items[e.ItemID]
		if item == nil || item.Type != itemType || !item.PublicView {
			continue
		}
		rows = append(rows, inventory.Row{
			ItemID:     item.ID,
			Name:       item.Name,
			Type:       item.Type,
			AcquiredAt: e.AcquiredAt,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].AcquiredAt.Equal(rows[j].AcquiredAt) {
			return rows[i].AcquiredAt.After(rows[j].AcquiredAt)
		}
		return rows[i].ItemID.Compare(rows[j].ItemID) > 0
	})
	return rows
}

// fakeFriends is an in-memory friends.Repository joined against fakeUsers.
type fakeFriends struct {
	users       *fakeUsers
	requests    map[ulid.ULID]*friends.Request
	friendships map[string]bool
}

func newFakeFriends(users *fakeUsers) *fakeFriends {
	return &fakeFriends{
		users:       users,
		requests:    make(map[ulid.ULID]*friends.Request),
		friendships: make(map[string]bool),
	}
}

func pairKey(a, b ulid.ULID) string {
	x, y := a.String(), b.String()
	if x > y {
		x, y = y, x
	}
	return x + ":" + y
}

func (f *fakeFriends) CreateRequest(_ context.Context, req *friends.Request) error {
	f.requests[req.ID] = req
	return nil
}

func (f *fakeFriends) GetRequest(_ context.Context, id ulid.ULID) (*friends.Request, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, friends.ErrNotFound
	}
	return req, nil
}

func (f *fakeFriends) RequestPending(_ context.Context, senderID, recipientID ulid.ULID) (bool, error) {
	for _, req := range f.requests {
		if req.SenderID == senderID && req.RecipientID == recipientID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFriends) Requests(_ context.Context, recipientID ulid.ULID, offset, limit int) ([]friends.RequestRow, error) {
	var matched []*friends.Request
	for _, req := range f.requests {
		if req.RecipientID == recipientID {
			matched = append(matched, req)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.Compare(matched[j].ID) > 0
	})

	rows := make([]friends.RequestRow, 0, limit)
	for i := offset; i < len(matched) && i < offset+limit; i++ {
		row := friends.RequestRow{Request: *matched[i]}
		if sender, ok := f.users.users[matched[i].SenderID]; ok {
			row.SenderUsername = sender.Username
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (f *fakeFriends) CountRequests(_ context.Context, recipientID ulid.ULID) (int64, error) {
	var n int64
	for _, req := range f.requests {
		if req.RecipientID == recipientID {
			n++
		}
	}
	return n, nil
}

func (f *fakeFriends) Accept(_ context.Context, id ulid.ULID) error {
	req, ok := f.requests[id]
	if !ok {
		return friends.ErrNotFound
	}
	f.friendships[pairKey(req.SenderID, req.RecipientID)] = true
	delete(f.requests, id)
	return nil
}

func (f *fakeFriends) Decline(_ context.Context, id ulid.ULID) error {
	if _, ok := f.requests[id]; !ok {
		return friends.ErrNotFound
	}
	delete(f.requests, id)
	return nil
}

func (f *fakeFriends) AreFriends(_ context.Context, a, b ulid.ULID) (bool, error) {
	return f.friendships[pairKey(a, b)], nil
}

// fixture wires real services over the in-memory fakes behind a test server.
type fixture struct {
	t *testing.T

	users     *fakeUsers
	staff     *fakeStaff
	sessions  *fakeSessions
	groups    *fakeGroups
	inventory *fakeInventory
	friends   *fakeFriends

	hasher auth.PasswordHasher
	server *httptest.Server
}

const fixturePassword = "opensesame"

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		t:        t,
		users:    newFakeUsers(),
		staff:    newFakeStaff(),
		sessions: newFakeSessions(),
		hasher:   auth.NewArgon2idHasher(),
	}
	f.groups = newFakeGroups(f.users)
	f.inventory = newFakeInventory()
	f.friends = newFakeFriends(f.users)

	authSvc := auth.NewService(f.users, f.staff, f.sessions, f.hasher)
	inventorySvc := inventory.NewService(f.inventory, f.users)
	handlers := httpapi.NewHandlers(httpapi.Deps{
		Log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		BaseURL:   "http://pixelhaven.test",
		Auth:      authSvc,
		Users:     f.users,
		Staff:     f.staff,
		Groups:    group.NewService(f.groups),
		Inventory: inventorySvc,
		Friends:   friends.NewService(f.friends, f.users),
		Admin:     admin.NewService(f.users, f.staff, inventorySvc, f.hasher),
	})

	f.server = httptest.NewServer(handlers.Router())
	t.Cleanup(f.server.Close)
	return f
}

// addUser seeds a user with the fixture password and default settings.
func (f *fixture) addUser(username string) *identity.User {
	f.t.Helper()

	hash, err := f.hasher.Hash(fixturePassword)
	require.NoError(f.t, err)

	now := time.Now()
	user := &identity.User{
		ID:           ulid.Make(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(f.t, f.users.Create(context.Background(), user))
	return user
}

// addStaff seeds a staff user holding the given capabilities.
func (f *fixture) addStaff(username string, caps ...access.Capability) *identity.User {
	f.t.Helper()

	user := f.addUser(username)
	now := time.Now()
	require.NoError(f.t, f.staff.Upsert(context.Background(), &identity.StaffRecord{
		UserID:    user.ID,
		Caps:      access.NewSet(caps...),
		CreatedAt: now,
		UpdatedAt: now,
	}))
	return user
}

// login returns a bearer token for the user.
func (f *fixture) login(username string) string {
	f.t.Helper()

	body := map[string]string{"username": username, "password": fixturePassword}
	var resp struct {
		Token string `json:"token"`
		Error string `json:"error"`
	}
	status := f.do(http.MethodPost, "/api/auth/login", "", body, &resp)
	require.Equal(f.t, http.StatusOK, status)
	require.Empty(f.t, resp.Error)
	require.NotEmpty(f.t, resp.Token)
	return resp.Token
}

// do sends a request and decodes the JSON response into out, returning the
// HTTP status. A nil body sends no payload; a nil out discards the response.
func (f *fixture) do(method, path, token string, body, out any) int {
	f.t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(f.t, err)
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequest(method, f.server.URL+path, reader)
	require.NoError(f.t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.server.Client().Do(req)
	require.NoError(f.t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(f.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

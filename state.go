package squawk

import (
	"sort"
	"strings"
	"sync"

	"github.com/squawkbot/squawk/irc"
	"github.com/squawkbot/squawk/telemetry"
)

// RoomState mirrors the channel-wide moderation flags the server
// announces through NOTICE and ROOMSTATE.
type RoomState struct {
	SubsOnly        bool
	SlowOn          bool
	SlowLimit       int
	R9k             bool
	HostOn          bool
	EmoteOnly       bool
	Suspended       bool
	BroadcasterLang string
}

// channelState tracks who is in the channel, who holds elevation, and
// the room flags. Moderators are not forced to be a subset of users:
// the server can announce a MODE for a user whose JOIN was never
// delivered, and membership sync is eventually consistent.
type channelState struct {
	mu    sync.Mutex
	users map[string]struct{}
	mods  map[string]struct{}
	room  RoomState
}

func newChannelState() *channelState {
	return &channelState{
		users: make(map[string]struct{}),
		mods:  make(map[string]struct{}),
	}
}

// apply folds one parsed message into the state. Unhandled commands
// leave it untouched.
func (st *channelState) apply(msg *irc.Message) {
	st.mu.Lock()
	defer st.mu.Unlock()

	switch msg.Command {
	case irc.RplNamreply:
		for _, name := range strings.Fields(msg.Body) {
			st.addUser(name)
		}
	case "JOIN":
		st.addUser(msg.Prefix.Nick)
	case "PART", "QUIT":
		st.removeUser(msg.Prefix.Nick)
	case "MODE":
		st.applyMode(msg.Params)
	case "NOTICE":
		st.applyNotice(msg.Tags.MsgID)
	case "ROOMSTATE":
		st.applyRoomState(msg.Tags)
	}

	telemetry.SetChannelUsers(len(st.users))
}

// addUser records a user; a leading role marker (%, @ or &) is
// stripped and also records elevation.
func (st *channelState) addUser(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	if name[0] == '%' || name[0] == '@' || name[0] == '&' {
		name = name[1:]
		if name == "" {
			return
		}
		st.mods[name] = struct{}{}
	}
	st.users[name] = struct{}{}
}

func (st *channelState) removeUser(name string) {
	name = strings.TrimSpace(name)
	delete(st.users, name)
	delete(st.mods, name)
}

// applyMode grants or revokes elevation on +/- mode changes carrying
// any of the operator, admin or halfop letters. Other letters are
// ignored. Params arrive as [channel, modeset, target].
func (st *channelState) applyMode(params []string) {
	if len(params) < 3 {
		return
	}
	modeset := params[1]
	target := strings.TrimSpace(params[2])
	if target == "" || !strings.ContainsAny(modeset, "oah") {
		return
	}

	switch {
	case strings.HasPrefix(modeset, "+"):
		st.mods[target] = struct{}{}
	case strings.HasPrefix(modeset, "-"):
		delete(st.mods, target)
	}
}

// applyNotice toggles room flags from the fixed notice vocabulary.
// Suspension has no off identifier.
func (st *channelState) applyNotice(id string) {
	switch id {
	case "subs_on":
		st.room.SubsOnly = true
	case "subs_off":
		st.room.SubsOnly = false
	case "slow_on":
		st.room.SlowOn = true
	case "slow_off":
		st.room.SlowOn = false
	case "r9k_on":
		st.room.R9k = true
	case "r9k_off":
		st.room.R9k = false
	case "host_on":
		st.room.HostOn = true
	case "host_off":
		st.room.HostOn = false
	case "emote_only_on":
		st.room.EmoteOnly = true
	case "emote_only_off":
		st.room.EmoteOnly = false
	case "msg_channel_suspended":
		st.room.Suspended = true
	}
}

// applyRoomState copies only the fields present in this broadcast;
// ROOMSTATE deltas carry a subset of keys.
func (st *channelState) applyRoomState(tags irc.Tags) {
	for _, key := range tags.Keys {
		switch key {
		case "broadcaster-lang":
			st.room.BroadcasterLang = tags.BroadcasterLang
		case "r9k":
			st.room.R9k = tags.R9k
		case "subs-only":
			st.room.SubsOnly = tags.SubsOnly
		case "slow":
			st.room.SlowLimit = tags.Slow
			st.room.SlowOn = tags.Slow > 0
		}
	}
}

func (st *channelState) userList() []string {
	st.mu.Lock()
	defer st.mu.Unlock()
	return sortedKeys(st.users)
}

func (st *channelState) modList() []string {
	st.mu.Lock()
	defer st.mu.Unlock()
	return sortedKeys(st.mods)
}

func (st *channelState) hasUser(name string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.users[name]
	return ok
}

func (st *channelState) isMod(name string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.mods[name]
	return ok
}

func (st *channelState) roomState() RoomState {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.room
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

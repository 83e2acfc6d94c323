package storage

import (
	"path/filepath"
	"testing"
	"time"

	"chessrules/internal/testutil"
)

func openStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := NewStore(path, false)
	testutil.NoError(t, err)
	testutil.NoError(t, s.InitDB())
	return s
}

func TestGameAndMovesPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chess.db")
	s := openStore(t, path)

	now := time.Now().UTC().Truncate(time.Second)
	testutil.NoError(t, s.RecordNewGame(GameRecord{
		GameID:          "g1",
		InitialPosition: `{"round":0}`,
		WhitePlayerID:   "p1",
		WhiteName:       "alice",
		WhiteUserID:     "u1",
		BlackPlayerID:   "p2",
		StartTimeUTC:    now,
	}))
	for i, mv := range []string{"e2e4", "e7e5", "g1f3"} {
		color := "w"
		if i%2 == 1 {
			color = "b"
		}
		testutil.NoError(t, s.RecordMove(MoveRecord{
			GameID: "g1", MoveNumber: i + 1, MoveText: mv,
			Position: "{}", PlayerColor: color, State: "ongoing", MoveTimeUTC: now,
		}))
	}
	testutil.NoError(t, s.DeleteUndoneMoves("g1", 2))

	// Close flushes the writer
	testutil.NoError(t, s.Close())
	testutil.True(t, s.IsHealthy())

	s = openStore(t, path)
	defer s.Close()

	games, err := s.QueryGames("*", "u1")
	testutil.NoError(t, err)
	testutil.Equal(t, len(games), 1)
	testutil.Equal(t, games[0].WhiteName, "alice")
	testutil.Equal(t, games[0].InitialPosition, `{"round":0}`)

	none, err := s.QueryGames("", "someone-else")
	testutil.NoError(t, err)
	testutil.Equal(t, len(none), 0)

	moves, err := s.QueryMoves("g1")
	testutil.NoError(t, err)
	testutil.Equal(t, len(moves), 2)
	testutil.Equal(t, moves[1].MoveText, "e7e5")
	testutil.Equal(t, moves[1].PlayerColor, "b")
}

func TestUsersAndSessions(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "users.db"))
	defer s.Close()

	rec := UserRecord{UserID: "u1", Username: "alice", Email: "a@example.com", PasswordHash: "h", CreatedAt: time.Now().UTC()}
	testutil.NoError(t, s.CreateUser(rec))
	testutil.ErrorIs(t, s.CreateUser(UserRecord{UserID: "u2", Username: "ALICE", PasswordHash: "h", CreatedAt: time.Now().UTC()}), ErrUserExists)

	u, err := s.GetUserByUsername("Alice")
	testutil.NoError(t, err)
	testutil.Equal(t, u.UserID, "u1")
	testutil.True(t, u.LastLoginAt == nil)

	u, err = s.GetUserByEmail("A@EXAMPLE.COM")
	testutil.NoError(t, err)
	testutil.Equal(t, u.Username, "alice")

	testutil.NoError(t, s.UpdateUserLastLogin("u1", time.Now().UTC()))
	testutil.NoError(t, s.UpdateUserPassword("u1", "h2"))
	u, err = s.GetUserByID("u1")
	testutil.NoError(t, err)
	testutil.Equal(t, u.PasswordHash, "h2")
	testutil.True(t, u.LastLoginAt != nil)

	testutil.NoError(t, s.CreateSession(SessionRecord{
		SessionID: "s1", UserID: "u1", CreatedAt: time.Now().UTC(), ExpiresAt: time.Now().UTC().Add(time.Hour),
	}))
	ok, err := s.IsSessionValid("s1")
	testutil.NoError(t, err)
	testutil.True(t, ok)

	// a second session replaces the first
	testutil.NoError(t, s.CreateSession(SessionRecord{
		SessionID: "s2", UserID: "u1", CreatedAt: time.Now().UTC(), ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}))
	ok, err = s.IsSessionValid("s1")
	testutil.NoError(t, err)
	testutil.False(t, ok)

	n, err := s.DeleteExpiredSessions()
	testutil.NoError(t, err)
	testutil.Equal(t, n, int64(1))

	testutil.NoError(t, s.DeleteUserByID("u1"))
	_, err = s.GetUserByID("u1")
	testutil.ErrorIs(t, err, ErrUserNotFound)
	testutil.ErrorIs(t, s.DeleteUserByID("u1"), ErrUserNotFound)
}

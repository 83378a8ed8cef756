package state

import (
	"database/sql"
	"errors"
	"time"

	dbutil "github.com/karthikeyanV2K/afot-player/internal/db"
)

// SessionTrack represents a track in the saved session playlist.
type SessionTrack struct {
	Path     string
	Title    string
	Artist   string
	Album    string
	Duration time.Duration
}

// SessionState represents the saved playback session.
type SessionState struct {
	TrackPath  string
	Position   time.Duration
	RepeatMode int
	Shuffle    bool
	SavedAt    time.Time
	Tracks     []SessionTrack
}

func getSession(db *sql.DB) (*SessionState, error) {
	var trackPath sql.NullString
	var positionMS, savedAt int64
	var repeatMode int
	var shuffle bool
	row := db.QueryRow(`SELECT track_path, position_ms, repeat_mode, shuffle, saved_at FROM session_state WHERE id = 1`)
	err := row.Scan(&trackPath, &positionMS, &repeatMode, &shuffle, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`
		SELECT path, title, artist, album, duration_ms
		FROM session_tracks
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []SessionTrack
	for rows.Next() {
		var t SessionTrack
		var artist, album sql.NullString
		var durationMS sql.NullInt64

		err := rows.Scan(&t.Path, &t.Title, &artist, &album, &durationMS)
		if err != nil {
			return nil, err
		}

		t.Artist = dbutil.NullStringValue(artist)
		t.Album = dbutil.NullStringValue(album)
		t.Duration = time.Duration(dbutil.NullInt64Value(durationMS)) * time.Millisecond
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &SessionState{
		TrackPath:  dbutil.NullStringValue(trackPath),
		Position:   time.Duration(positionMS) * time.Millisecond,
		RepeatMode: repeatMode,
		Shuffle:    shuffle,
		SavedAt:    time.Unix(savedAt, 0),
		Tracks:     tracks,
	}, nil
}

func saveSession(sqlDB *sql.DB, state SessionState) error {
	return dbutil.WithTx(sqlDB, func(tx *sql.Tx) error {
		// Replace the saved playlist
		_, err := tx.Exec(`DELETE FROM session_tracks`)
		if err != nil {
			return err
		}

		var trackPath any
		if state.TrackPath != "" {
			trackPath = state.TrackPath
		}
		savedAt := state.SavedAt
		if savedAt.IsZero() {
			savedAt = time.Now()
		}

		_, err = tx.Exec(`
			INSERT INTO session_state (id, track_path, position_ms, repeat_mode, shuffle, saved_at)
			VALUES (1, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				track_path = excluded.track_path,
				position_ms = excluded.position_ms,
				repeat_mode = excluded.repeat_mode,
				shuffle = excluded.shuffle,
				saved_at = excluded.saved_at
		`, trackPath, state.Position.Milliseconds(), state.RepeatMode, state.Shuffle, savedAt.Unix())
		if err != nil {
			return err
		}

		stmt, err := tx.Prepare(`
			INSERT INTO session_tracks (position, path, title, artist, album, duration_ms)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, t := range state.Tracks {
			_, err = stmt.Exec(i, t.Path, t.Title, t.Artist, t.Album, t.Duration.Milliseconds())
			if err != nil {
				return err
			}
		}
		return nil
	})
}

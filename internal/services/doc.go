// Package services implements the external collaborators of a sync run.
//
// # Row Store
//
// [RowStore] is the ordered row collection. [SheetsService] implements it against the Google Sheets v4 REST API:
//   - Fetch reads the configured A1 range and maps the returned rows to positions 0..n-1
//   - DeleteRanges sends one batchUpdate with a deleteDimension request per range
//
// Positions are offset by the configured header row count only at the wire boundary, so callers never see sheet row indices.
//
// # Google Authentication
//
// [NewGoogleOAuthConfig] builds the [oauth2.Config] for the Sheets scope.
// [NewGoogleClient] returns an HTTP client whose token refreshes automatically and is written back to disk whenever it changes.
//
// # Media Collaborators
//
// Each pipeline step is a single external call:
//   - [YTDLPAcquirer] : downloads the audio stream with yt-dlp
//   - [FFmpegTranscoder] : converts it with ffmpeg
//   - [ID3Tagger] : writes artist, album and genre frames
//   - [MusicImporter] : opens the file in the music app, then pauses playback
//
// External programs are invoked through a [CommandRunner] so tests can substitute a fake.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrNotAuthenticated] : token missing or rejected
//   - [shared.ErrAPIRequest] : Sheets request failed
//   - [shared.ErrAcquire], [shared.ErrTranscode], [shared.ErrTag], [shared.ErrImport] : collaborator failures
package services

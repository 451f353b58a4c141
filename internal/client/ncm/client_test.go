package ncm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okonenko/ncm-grabber/internal/config"
)

// newTestClient builds a client pointed at the given test server.
func newTestClient(t *testing.T, serverURL string) Client {
	t.Helper()

	client, err := NewClient(&config.Config{NCMBaseURL: serverURL}, http.DefaultClient)
	require.NoError(t, err)

	return client
}

// TestSearch tests keyword search against a stubbed API.
func TestSearch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/cloudsearch/pc", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "test keyword", r.PostFormValue("s"))
		assert.Equal(t, "1", r.PostFormValue("type"))
		assert.Equal(t, "10", r.PostFormValue("limit"))

		fmt.Fprint(w, `{
			"code": 200,
			"result": {
				"songCount": 1,
				"songs": [{
					"id": 42,
					"name": "Test Song",
					"ar": [{"id": 1, "name": "Artist A"}, {"id": 2, "name": "Artist B"}],
					"al": {"id": 7, "name": "Test Album", "picUrl": "https://example.com/cover.jpg"}
				}]
			}
		}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	hits, err := client.Search(context.Background(), "test keyword", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	assert.Equal(t, int64(42), hits[0].ID)
	assert.Equal(t, "Test Song", hits[0].Name)
	assert.Equal(t, []string{"Artist A", "Artist B"}, hits[0].ArtistNames())
	assert.Equal(t, "Test Album", hits[0].AlbumName())
	assert.Equal(t, "https://example.com/cover.jpg", hits[0].CoverURL())
}

// TestSearch_APIError tests that a non-success envelope code maps to a CatalogError.
func TestSearch_APIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"code": 400}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	hits, err := client.Search(context.Background(), "anything", 10)
	require.Error(t, err)
	assert.Nil(t, hits)

	var catalogErr *CatalogError
	require.ErrorAs(t, err, &catalogErr)
	assert.Equal(t, CatalogErrorMalformed, catalogErr.Kind)
}

// TestGetTrackDetail_Caching tests that repeated lookups hit the cache.
func TestGetTrackDetail_Caching(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/song/detail", r.URL.Path)
		calls.Add(1)

		fmt.Fprint(w, `{
			"code": 200,
			"songs": [{
				"id": 42,
				"name": "Cached Song",
				"ar": [{"id": 1, "name": "Artist"}],
				"al": {"id": 7, "name": "Album", "picUrl": ""}
			}]
		}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	for range 3 {
		track, err := client.GetTrackDetail(context.Background(), 42)
		require.NoError(t, err)
		assert.Equal(t, "Cached Song", track.Name)
	}

	assert.Equal(t, int64(1), calls.Load())
}

// TestGetTrackDetail_NotFound tests the missing-track error path.
func TestGetTrackDetail_NotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"code": 200, "songs": []}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	track, err := client.GetTrackDetail(context.Background(), 999)
	require.Error(t, err)
	assert.Nil(t, track)

	var catalogErr *CatalogError
	require.ErrorAs(t, err, &catalogErr)
	assert.Equal(t, CatalogErrorNotFound, catalogErr.Kind)
	assert.ErrorIs(t, err, ErrTrackNotFound)
}

// TestGetPlaylistTracks tests that playlist order is preserved.
func TestGetPlaylistTracks(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v6/playlist/detail":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "100", r.PostFormValue("id"))

			fmt.Fprint(w, `{
				"code": 200,
				"playlist": {
					"id": 100,
					"name": "Test Playlist",
					"trackIds": [{"id": 2}, {"id": 1}]
				}
			}`)
		case "/api/v3/song/detail":
			fmt.Fprint(w, `{
				"code": 200,
				"songs": [
					{"id": 1, "name": "First", "ar": [], "al": null},
					{"id": 2, "name": "Second", "ar": [], "al": null}
				]
			}`)
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	tracks, err := client.GetPlaylistTracks(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, tracks, 2)

	// Playlist order, not response order.
	assert.Equal(t, "Second", tracks[0].Name)
	assert.Equal(t, "First", tracks[1].Name)
}

// TestResolveAudioLegacy tests quality-aware audio resolution.
func TestResolveAudioLegacy(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/song/enhance/player/url/v1", r.URL.Path)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "[42]", r.PostFormValue("ids"))
		assert.Equal(t, "lossless", r.PostFormValue("level"))

		fmt.Fprint(w, `{
			"code": 200,
			"data": [{
				"id": 42,
				"url": "https://cdn.example.com/42.flac",
				"type": "flac",
				"br": 999000,
				"size": 31457280,
				"level": "lossless"
			}]
		}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	ref, err := client.ResolveAudioLegacy(context.Background(), 42, "lossless")
	require.NoError(t, err)

	assert.Equal(t, int64(42), ref.TrackID)
	assert.Equal(t, "https://cdn.example.com/42.flac", ref.URL)
	assert.Equal(t, "flac", ref.ContainerExt)
	assert.Equal(t, int64(31457280), ref.Size)
}

// TestResolveAudioStandardAPI_EmptyURL tests that an empty stream URL is not an error.
func TestResolveAudioStandardAPI_EmptyURL(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/song/enhance/player/url", r.URL.Path)

		fmt.Fprint(w, `{"code": 200, "data": [{"id": 42, "url": "", "type": "", "br": 0, "size": 0}]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	ref, err := client.ResolveAudioStandardAPI(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, ref.URL)
}

// TestGetLyrics tests lyrics retrieval including the absent case.
func TestGetLyrics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		response string
		expected string
	}{
		{
			name:     "lyrics present",
			response: `{"code": 200, "lrc": {"lyric": "[00:01.00]line one\n[00:05.00]line two\n"}}`,
			expected: "[00:01.00]line one\n[00:05.00]line two\n",
		},
		{
			name:     "lyrics absent",
			response: `{"code": 200}`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/song/lyric", r.URL.Path)
				fmt.Fprint(w, tt.response)
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)

			lyrics, err := client.GetLyrics(context.Background(), 42)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, lyrics)
		})
	}
}

// TestFetchAudio tests the streaming download entry point.
func TestFetchAudio(t *testing.T) {
	t.Parallel()

	payload := []byte("fake audio payload")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bytes=0-", r.Header.Get("Range"))
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	result, err := client.FetchAudio(context.Background(), server.URL+"/audio")
	require.NoError(t, err)

	defer result.Body.Close() //nolint:errcheck // Test cleanup, error is not critical.

	assert.Equal(t, int64(len(payload)), result.TotalBytes)
}

// TestFetchAudio_OutlivesClientTimeout tests that an audio transfer keeps
// streaming past the shared client's request timeout. Large lossless files
// routinely take longer than a metadata call is allowed to.
func TestFetchAudio_OutlivesClientTimeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		flusher, ok := w.(http.Flusher)
		require.True(t, ok)

		_, _ = w.Write([]byte("first half "))
		flusher.Flush()

		time.Sleep(150 * time.Millisecond)

		_, _ = w.Write([]byte("second half"))
	}))
	defer server.Close()

	client, err := NewClient(
		&config.Config{NCMBaseURL: server.URL},
		&http.Client{Timeout: 50 * time.Millisecond},
	)
	require.NoError(t, err)

	result, err := client.FetchAudio(context.Background(), server.URL+"/audio")
	require.NoError(t, err)

	defer result.Body.Close() //nolint:errcheck // Test cleanup, error is not critical.

	// The body read spans the timeout; only a client without one survives it.
	payload, err := io.ReadAll(result.Body)
	require.NoError(t, err)
	assert.Equal(t, "first half second half", string(payload))
}

// TestFetchBytes_ErrorStatus tests that non-200 responses surface as errors.
func TestFetchBytes_ErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	data, err := client.FetchBytes(context.Background(), server.URL+"/cover.jpg")
	require.ErrorIs(t, err, ErrUnexpectedHTTPStatus)
	assert.Nil(t, data)
}

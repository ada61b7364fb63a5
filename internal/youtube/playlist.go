package youtube

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
)

const playlistPageSize = 50

// Video is one playlist entry.
type Video struct {
	ID           string
	Title        string
	Position     int
	ChannelTitle string
}

type playlistItemsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		Snippet struct {
			Title                  string `json:"title"`
			Position               int    `json:"position"`
			VideoOwnerChannelTitle string `json:"videoOwnerChannelTitle"`
			ResourceID             struct {
				VideoID string `json:"videoId"`
			} `json:"resourceId"`
		} `json:"snippet"`
	} `json:"items"`
}

// unavailableTitles are placeholders the API returns for entries whose
// video has been removed or made private.
var unavailableTitles = map[string]struct{}{
	"private video": {},
	"deleted video": {},
}

// PlaylistVideos returns a pager over the playlist's videos. Removed and
// private entries are dropped.
func (c *Client) PlaylistVideos(playlistID string) *Pager[Video] {
	playlistID = strings.TrimSpace(playlistID)
	return NewPager(func(ctx context.Context, token string) ([]Video, string, error) {
		if playlistID == "" {
			return nil, "", errors.New("youtube: playlist id is required")
		}
		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("playlistId", playlistID)
		params.Set("maxResults", strconv.Itoa(playlistPageSize))
		if token != "" {
			params.Set("pageToken", token)
		}

		var payload playlistItemsResponse
		if err := c.getJSON(ctx, "playlistItems", params, &payload); err != nil {
			return nil, "", err
		}

		videos := make([]Video, 0, len(payload.Items))
		for _, item := range payload.Items {
			snippet := item.Snippet
			if snippet.ResourceID.VideoID == "" {
				continue
			}
			if _, ok := unavailableTitles[strings.ToLower(strings.TrimSpace(snippet.Title))]; ok && snippet.VideoOwnerChannelTitle == "" {
				continue
			}
			videos = append(videos, Video{
				ID:           snippet.ResourceID.VideoID,
				Title:        snippet.Title,
				Position:     snippet.Position,
				ChannelTitle: snippet.VideoOwnerChannelTitle,
			})
		}
		return videos, payload.NextPageToken, nil
	})
}

// ListPlaylist drains PlaylistVideos into a single ordered slice.
func (c *Client) ListPlaylist(ctx context.Context, playlistID string) ([]Video, error) {
	return Collect(ctx, c.PlaylistVideos(playlistID))
}

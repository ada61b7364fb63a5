package youtube

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
)

const commentPageSize = 100

// Comment is a top-level comment with optional replies.
type Comment struct {
	ID          string
	Text        string
	Author      string
	PublishedAt string
	ReplyCount  int
	Replies     []string
}

type commentSnippet struct {
	TextDisplay       string `json:"textDisplay"`
	TextOriginal      string `json:"textOriginal"`
	AuthorDisplayName string `json:"authorDisplayName"`
	PublishedAt       string `json:"publishedAt"`
}

type commentThreadsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		ID      string `json:"id"`
		Snippet struct {
			TopLevelComment struct {
				Snippet commentSnippet `json:"snippet"`
			} `json:"topLevelComment"`
			TotalReplyCount int `json:"totalReplyCount"`
		} `json:"snippet"`
		Replies struct {
			Comments []struct {
				Snippet commentSnippet `json:"snippet"`
			} `json:"comments"`
		} `json:"replies"`
	} `json:"items"`
}

// CommentThreads returns a pager over a video's top-level comments, most
// relevant first as ordered by the API.
func (c *Client) CommentThreads(videoID string) *Pager[Comment] {
	videoID = strings.TrimSpace(videoID)
	return NewPager(func(ctx context.Context, token string) ([]Comment, string, error) {
		if videoID == "" {
			return nil, "", errors.New("youtube: video id is required")
		}
		params := url.Values{}
		if c.includeReplies {
			params.Set("part", "snippet,replies")
		} else {
			params.Set("part", "snippet")
		}
		params.Set("videoId", videoID)
		params.Set("maxResults", strconv.Itoa(commentPageSize))
		params.Set("textFormat", c.textFormat)
		if token != "" {
			params.Set("pageToken", token)
		}

		var payload commentThreadsResponse
		if err := c.getJSON(ctx, "commentThreads", params, &payload); err != nil {
			return nil, "", err
		}

		comments := make([]Comment, 0, len(payload.Items))
		for _, item := range payload.Items {
			top := item.Snippet.TopLevelComment.Snippet
			comment := Comment{
				ID:          item.ID,
				Text:        c.commentText(top),
				Author:      top.AuthorDisplayName,
				PublishedAt: top.PublishedAt,
				ReplyCount:  item.Snippet.TotalReplyCount,
			}
			if c.includeReplies {
				for _, reply := range item.Replies.Comments {
					comment.Replies = append(comment.Replies, c.commentText(reply.Snippet))
				}
			}
			comments = append(comments, comment)
		}
		return comments, payload.NextPageToken, nil
	})
}

func (c *Client) commentText(snippet commentSnippet) string {
	text := snippet.TextDisplay
	if text == "" {
		text = snippet.TextOriginal
	}
	if c.textFormat == TextFormatHTML {
		return StripMarkup(text)
	}
	return text
}

package ingest

import (
	"testing"

	"tunetalk/internal/youtube"
)

func TestReferenceQuery(t *testing.T) {
	tests := []struct {
		name          string
		video         youtube.Video
		wantSong      string
		wantPerformer string
	}{
		{
			name:          "performer in title",
			video:         youtube.Video{Title: "Queen - Bohemian Rhapsody (Remastered 2011)", ChannelTitle: "Queen Official"},
			wantSong:      "Bohemian Rhapsody",
			wantPerformer: "Queen",
		},
		{
			name:          "topic channel",
			video:         youtube.Video{Title: "Hotel California [HD]", ChannelTitle: "Eagles - Topic"},
			wantSong:      "Hotel California",
			wantPerformer: "Eagles",
		},
		{
			name:          "no performer",
			video:         youtube.Video{Title: "Clair de Lune", ChannelTitle: "Some Uploader"},
			wantSong:      "Clair de Lune",
			wantPerformer: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			song, performer := referenceQuery(tt.video)
			if song != tt.wantSong || performer != tt.wantPerformer {
				t.Fatalf("referenceQuery = (%q, %q), want (%q, %q)", song, performer, tt.wantSong, tt.wantPerformer)
			}
		})
	}
}

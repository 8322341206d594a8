package main

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack"
)

// Slack truncates messages around 40000 characters; stay well under so
// a chunk never lands mid-ticket.
const slackChunkLimit = 3800

// PostReport sends report text to the configured channel, split into
// chunks on line boundaries.
func PostReport(api *slack.Client, channelID, text string) error {
	for _, chunk := range chunkMessage(text, slackChunkLimit) {
		_, _, err := api.PostMessage(channelID, slack.MsgOptionText(chunk, false))
		if err != nil {
			return fmt.Errorf("posting report chunk: %w", err)
		}
	}
	return nil
}

// chunkMessage splits text into pieces of at most limit characters,
// breaking on newlines. A single line longer than the limit is hard-cut.
func chunkMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	for _, line := range strings.Split(text, "\n") {
		for len(line) > limit {
			if current.Len() > 0 {
				chunks = append(chunks, current.String())
				current.Reset()
			}
			chunks = append(chunks, line[:limit])
			line = line[limit:]
		}
		if current.Len()+len(line)+1 > limit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte('\n')
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

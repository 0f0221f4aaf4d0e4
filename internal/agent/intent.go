package agent

import "strings"

// Intent classifications for a chat turn.
const (
	IntentSmalltalk          = "smalltalk"
	IntentImageSearch        = "image_search"
	IntentTextRecommendation = "text_recommendation"
)

var smalltalkKeywords = []string{"hello", "hi", "hey", "name", "capabilities"}

var imageKeywords = []string{"image", "photo", "picture"}

// DetectIntent classifies a message. An attached image forces image search
// unless the message is smalltalk.
func DetectIntent(message string, hasImage bool) string {
	lowered := strings.ToLower(message)
	for _, keyword := range smalltalkKeywords {
		if strings.Contains(lowered, keyword) {
			return IntentSmalltalk
		}
	}
	if hasImage {
		return IntentImageSearch
	}
	for _, keyword := range imageKeywords {
		if strings.Contains(lowered, keyword) {
			return IntentImageSearch
		}
	}
	return IntentTextRecommendation
}

func smalltalkReply(message string) string {
	if strings.Contains(strings.ToLower(message), "name") {
		return "I'm CommerceAgent, here to help you discover products."
	}
	return "Hi! I'm CommerceAgent. Ask me for product recommendations or try searching by image."
}

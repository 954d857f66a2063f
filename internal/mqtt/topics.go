package mqtt

import "fmt"

func TopicSessionUtterances(prefix string) string {
	return fmt.Sprintf("%s/session/+/utterance", prefix)
}

func TopicSessionResets(prefix string) string {
	return fmt.Sprintf("%s/session/+/reset", prefix)
}

func TopicParseRequests(prefix string) string {
	return fmt.Sprintf("%s/nlu/parse/+", prefix)
}

func TopicUtterance(prefix, sessionID string) string {
	return fmt.Sprintf("%s/session/%s/utterance", prefix, sessionID)
}

func TopicTurn(prefix, sessionID string) string {
	return fmt.Sprintf("%s/session/%s/turn", prefix, sessionID)
}

func TopicError(prefix, sessionID string) string {
	return fmt.Sprintf("%s/session/%s/error", prefix, sessionID)
}

func TopicParseRequest(prefix, requestID string) string {
	return fmt.Sprintf("%s/nlu/parse/%s", prefix, requestID)
}

func TopicParseResult(prefix, requestID string) string {
	return fmt.Sprintf("%s/nlu/result/%s", prefix, requestID)
}

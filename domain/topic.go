package domain

import (
	"errors"
	"regexp"
	"strings"
)

var ErrInvalidTopic = errors.New("invalid topic")

// FCM only accepts these characters in topic names.
var topicRe = regexp.MustCompile(`^[a-zA-Z0-9\-_.~%]{1,900}$`)

const topicPrefix = "/topics/"

type Topic string

func NewTopic(name string) (Topic, error) {
	t := Topic(strings.TrimPrefix(strings.TrimSpace(name), topicPrefix))
	if !topicRe.MatchString(string(t)) {
		return "", ErrInvalidTopic
	}
	return t, nil
}

func (t Topic) String() string {
	return string(t)
}

// Path is the fully qualified form expected by the topic management API.
func (t Topic) Path() string {
	return topicPrefix + string(t)
}

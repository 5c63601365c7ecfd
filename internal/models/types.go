package models

import (
	"strings"
	"time"
)

// User is one of the two fixed chat profiles.
type User struct {
	ID             int    `yaml:"id"`
	Name           string `yaml:"name"`
	Status         string `yaml:"status"`
	AvatarInitials string `yaml:"avatar"`
	AccentColor    string `yaml:"color"`
	AvatarImage    string `yaml:"image,omitempty"`
}

type DeliveryState string

const (
	StateSent DeliveryState = "sent"
	StateRead DeliveryState = "read"
)

// Message mirrors the persisted record; the JSON names are the storage format.
type Message struct {
	ID         int           `json:"id"`
	SenderID   int           `json:"senderId"`
	SenderName string        `json:"senderName"`
	Text       string        `json:"text"`
	Image      string        `json:"image,omitempty"`
	ImageName  string        `json:"imageName,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
	Status     DeliveryState `json:"status"`
	Reactions  []string      `json:"reactions"`
}

// HasImage reports whether the message carries an image attachment.
func (m Message) HasImage() bool {
	return m.Image != ""
}

// Clone returns a copy that shares no slices with m.
func (m Message) Clone() Message {
	c := m
	c.Reactions = append([]string{}, m.Reactions...)
	return c
}

// Content is what a sender submits: text, an image, or both.
type Content struct {
	Text      string
	Image     string
	ImageName string
}

func (c Content) Empty() bool {
	return strings.TrimSpace(c.Text) == "" && c.Image == ""
}

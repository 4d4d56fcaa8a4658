package domain

import (
	"errors"
	"strings"
	"time"
)

var ErrUnknownPlatform = errors.New("unknown platform")

type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformWeb     Platform = "web"
)

func ParsePlatform(s string) (Platform, error) {
	switch p := Platform(strings.ToLower(strings.TrimSpace(s))); p {
	case PlatformIOS, PlatformAndroid, PlatformWeb:
		return p, nil
	}
	return "", ErrUnknownPlatform
}

type DeviceInfo struct {
	DeviceId   string `bson:"deviceId,omitempty" json:"deviceId,omitempty"`
	Model      string `bson:"model,omitempty" json:"model,omitempty"`
	OS         string `bson:"os,omitempty" json:"os,omitempty"`
	OSVersion  string `bson:"osVersion,omitempty" json:"osVersion,omitempty"`
	AppVersion string `bson:"appVersion,omitempty" json:"appVersion,omitempty"`
}

// DeviceToken is one app installation able to receive pushes. Records are
// never removed, IsActive=false marks them as logically deleted.
type DeviceToken struct {
	Id          string     `bson:"_id" json:"id"`
	UserId      string     `bson:"userId" json:"userId"`
	Platform    Platform   `bson:"platform" json:"platform"`
	DeviceToken string     `bson:"deviceToken" json:"deviceToken"`
	APNSToken   string     `bson:"apnsToken,omitempty" json:"apnsToken,omitempty"`
	IsActive    bool       `bson:"isActive" json:"isActive"`
	DeviceInfo  DeviceInfo `bson:"deviceInfo" json:"deviceInfo"`
	LastSeen    time.Time  `bson:"lastSeen" json:"lastSeen"`
	LastUsed    time.Time  `bson:"lastUsed,omitempty" json:"lastUsed,omitempty"`
	Created     time.Time  `bson:"created" json:"created"`
	Updated     time.Time  `bson:"updated" json:"updated"`
}

package models

import "time"

// DeviceSession records a device token issued after a successful password
// login. The token stays valid for a fixed window counted from LastLogin.
type DeviceSession struct {
	Token     string    `json:"token" bson:"token"`
	LastLogin time.Time `json:"lastLogin" bson:"last_login"`
}

// Package event holds the per-event configuration record. The original
// deployment kept these values in loose cells of the backing sheet; here it is
// one typed row loaded once at startup and passed to the components that need
// it.
package event

import "errors"

var ErrIncompleteConfig = errors.New("incomplete event configuration")

type Config struct {
	EventName         string
	OrganizerContact  string
	NotificationToken string
	ScannerPinHash    string
}

func (c Config) Validate() error {
	if c.EventName == "" || c.NotificationToken == "" || c.ScannerPinHash == "" {
		return ErrIncompleteConfig
	}
	return nil
}

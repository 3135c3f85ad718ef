package channels

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// ErrNotFound marks a missing subscription or channel. Callers abandon the one
// recording session and keep the loop running.
var ErrNotFound = errors.New("not found")

// Subscription groups the channels available under one provider account.
type Subscription struct {
	Name     string            `json:"abonnement"`
	Channels map[string]string `json:"chaines"`
}

// Directory resolves (subscription, channel name) pairs to stream URLs.
// Lookups fold case so "tf1" and "TF1" hit the same record.
type Directory struct {
	subscriptions map[string]map[string]string
	names         []string
	raw           []Subscription
}

var fold = cases.Fold()

// LoadFile reads the directory from a JSON document of subscription records.
func LoadFile(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read channel directory: %w", err)
	}
	return Parse(data)
}

// Parse builds a Directory from raw JSON.
func Parse(data []byte) (*Directory, error) {
	var subs []Subscription
	if err := json.Unmarshal(data, &subs); err != nil {
		return nil, fmt.Errorf("parse channel directory: %w", err)
	}
	return New(subs), nil
}

// New builds a Directory from already-decoded subscription records.
func New(subs []Subscription) *Directory {
	dir := &Directory{
		subscriptions: make(map[string]map[string]string, len(subs)),
		raw:           subs,
	}
	for _, sub := range subs {
		key := fold.String(strings.TrimSpace(sub.Name))
		if key == "" {
			continue
		}
		channels, ok := dir.subscriptions[key]
		if !ok {
			channels = make(map[string]string, len(sub.Channels))
			dir.subscriptions[key] = channels
			dir.names = append(dir.names, sub.Name)
		}
		for name, url := range sub.Channels {
			channels[fold.String(strings.TrimSpace(name))] = url
		}
	}
	sort.Strings(dir.names)
	return dir
}

// Resolve maps a subscription and channel name to a stream URL.
func (d *Directory) Resolve(subscription, channel string) (string, error) {
	channels, ok := d.subscriptions[fold.String(strings.TrimSpace(subscription))]
	if !ok {
		return "", fmt.Errorf("subscription %q: %w", subscription, ErrNotFound)
	}
	url, ok := channels[fold.String(strings.TrimSpace(channel))]
	if !ok || strings.TrimSpace(url) == "" {
		return "", fmt.Errorf("channel %q under subscription %q: %w", channel, subscription, ErrNotFound)
	}
	return url, nil
}

// Subscriptions lists the known subscription names in sorted order.
func (d *Directory) Subscriptions() []string {
	return append([]string(nil), d.names...)
}

// Records returns the decoded subscription records, for listing in the CLI.
func (d *Directory) Records() []Subscription {
	return append([]Subscription(nil), d.raw...)
}

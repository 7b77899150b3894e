package drives

import (
	"context"
	"fmt"

	"github.com/datatug/drivetug/pkg/files"
)

// MountLetters are the candidate letters for mounted images, in order of preference.
var MountLetters = []string{"7", "G", "K", "T", "I", "D"}

// Mount attaches imagePath through m under the first free candidate letter.
// One image is mounted at a time; a previous mount is released first.
func (r *Registry) Mount(ctx context.Context, imagePath string, m Mounter) (string, error) {
	if letter, _ := r.MountedImage(); letter != "" {
		if l, _ := Split(imagePath); l == letter {
			return "", fmt.Errorf("mount %s from mounted image: %w", imagePath, files.ErrNotSupported)
		}
		r.Unmount()
	}
	backend, err := m.Mount(ctx, r, imagePath)
	if err != nil {
		return "", fmt.Errorf("mount %s: %w", imagePath, err)
	}
	letter := r.freeLetter()
	if letter == "" {
		return "", ErrNoFreeLetter
	}
	if err = r.attach(letter, backend, backend.Class()|files.DriveImage, imagePath); err != nil {
		return "", err
	}
	r.logger.Info("image mounted", "image", imagePath, "drive", letter)
	r.events.Post(MediaEvent{Kind: DriveRemapped, Drive: letter})
	return letter, nil
}

// Unmount detaches the mounted image and returns its letter, or "" if
// nothing was mounted.
func (r *Registry) Unmount() string {
	letter, source := r.MountedImage()
	if letter == "" {
		return ""
	}
	r.Detach(letter)
	r.logger.Info("image unmounted", "image", source, "drive", letter)
	r.events.Post(MediaEvent{Kind: DriveRemapped, Drive: letter})
	return letter
}

// MountedImage returns the letter and image path of the current mount.
func (r *Registry) MountedImage() (letter, source string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, l := range r.order {
		if d := r.drives[l]; d.source != "" {
			return l, d.source
		}
	}
	return "", ""
}

func (r *Registry) freeLetter() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, l := range MountLetters {
		if _, taken := r.drives[l]; !taken {
			return l
		}
	}
	return ""
}

// CheckMedia compares the presence of removable drives with the last
// check and queues insert and eject events.
func (r *Registry) CheckMedia() {
	r.mu.Lock()
	var changed []MediaEvent
	for _, l := range r.order {
		now := isPresent(r.drives[l].backend)
		if now == r.present[l] {
			continue
		}
		r.present[l] = now
		kind := MediaEjected
		if now {
			kind = MediaInserted
		}
		changed = append(changed, MediaEvent{Kind: kind, Drive: l})
	}
	r.mu.Unlock()
	for _, ev := range changed {
		r.logger.Info("media changed", "drive", ev.Drive, "event", ev.Kind.String())
		r.events.Post(ev)
	}
}

// Poll checks media presence and returns all events pending since the last poll.
func (r *Registry) Poll() []MediaEvent {
	r.CheckMedia()
	return r.events.Poll()
}

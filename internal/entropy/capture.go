package entropy

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Klingon-tech/seedsmith/pkg/crypto"
)

// DefaultCPUInfoPath is where the device serial is read from on Linux.
const DefaultCPUInfoPath = "/proc/cpuinfo"

var ErrNoSerial = errors.New("no serial number found")

// Capture holds the raw material of a camera entropy session, in the order
// it is mixed: device id, timestamp, preview frames, final frame.
type Capture struct {
	DeviceID  []byte
	Timestamp time.Time
	Previews  [][]byte
	Final     []byte
}

// Sources returns the capture's material in mixing order.
func (c *Capture) Sources() [][]byte {
	srcs := make([][]byte, 0, len(c.Previews)+3)
	srcs = append(srcs, c.DeviceID, timestampBytes(c.Timestamp))
	srcs = append(srcs, c.Previews...)
	srcs = append(srcs, c.Final)
	return srcs
}

// Mix folds the capture into entropy for a wordCount-word mnemonic and then
// wipes every buffer the capture holds, whether or not mixing succeeded.
func (c *Capture) Mix(wordCount int) ([]byte, error) {
	defer c.Wipe()
	if len(c.Final) == 0 {
		return nil, fmt.Errorf("%w: final capture is empty", ErrNoEntropy)
	}
	return Mix(wordCount, c.Sources()...)
}

// Wipe zeroes and drops all captured material.
func (c *Capture) Wipe() {
	crypto.Zero(c.DeviceID)
	for _, p := range c.Previews {
		crypto.Zero(p)
	}
	crypto.Zero(c.Final)
	c.DeviceID = nil
	c.Previews = nil
	c.Final = nil
	c.Timestamp = time.Time{}
}

// timestampBytes renders t as decimal seconds with sub-second precision.
func timestampBytes(t time.Time) []byte {
	secs := float64(t.Unix()) + float64(t.Nanosecond())/float64(time.Second)
	return []byte(strconv.FormatFloat(secs, 'f', -1, 64))
}

// ReadDeviceSerial returns the value of the "Serial" line of a cpuinfo-style
// file. Callers mix a nil device id when this fails.
func ReadDeviceSerial(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok || strings.TrimSpace(key) != "Serial" {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			break
		}
		return []byte(value), nil
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return nil, fmt.Errorf("%w in %s", ErrNoSerial, path)
}

package android

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/mattn/go-shellwords"
	"go.uber.org/zap"

	"github.com/ai-agents-2030/AppAgent/internal/model"
	"github.com/ai-agents-2030/AppAgent/internal/platform"
)

const (
	swipeDuration     = 400
	longPressDuration = 1000
)

// Device is one adb-attached device. It implements every platform backend
// interface.
type Device struct {
	cmd        []string
	serial     string
	remoteShot string
	remoteXML  string
	overrideW  int
	overrideH  int
	run        Runner
	logger     *zap.Logger

	sizeMu sync.Mutex
	width  int
	height int
}

// New builds a Device. A nil runner uses ExecRunner.
func New(opts platform.Options, run Runner, logger *zap.Logger) (*Device, error) {
	command := opts.Command
	if command == "" {
		command = "adb"
	}
	cmd, err := shellwords.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse adb command %q: %w", command, err)
	}
	if len(cmd) == 0 {
		return nil, fmt.Errorf("empty adb command")
	}
	if run == nil {
		run = ExecRunner
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Device{
		cmd:        cmd,
		serial:     opts.Serial,
		remoteShot: orDefault(opts.RemoteScreenDir, "/sdcard"),
		remoteXML:  orDefault(opts.RemoteXMLDir, "/sdcard"),
		overrideW:  opts.Width,
		overrideH:  opts.Height,
		run:        run,
		logger:     logger.Named("adb"),
	}
	return d, nil
}

// Serial returns the configured serial, possibly empty.
func (d *Device) Serial() string { return d.serial }

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// adb runs one adb invocation against the device. Output mentioning an
// error is treated as failure even when adb exits zero.
func (d *Device) adb(ctx context.Context, args ...string) (string, error) {
	full := append([]string{}, d.cmd[1:]...)
	if d.serial != "" {
		full = append(full, "-s", d.serial)
	}
	full = append(full, args...)

	d.logger.Debug("exec", zap.Strings("args", full))
	out, err := d.run(ctx, d.cmd[0], full...)
	if err != nil {
		return out, err
	}
	trimmed := strings.TrimSpace(out)
	if strings.HasPrefix(trimmed, "ERROR") || strings.Contains(trimmed, "error:") {
		return out, fmt.Errorf("adb %s: %s", strings.Join(args, " "), trimmed)
	}
	return out, nil
}

func (d *Device) shell(ctx context.Context, args ...string) (string, error) {
	return d.adb(ctx, append([]string{"shell"}, args...)...)
}

// Screenshot captures the screen on the device and pulls it to dir/<name>.png.
func (d *Device) Screenshot(ctx context.Context, name, dir string) (string, error) {
	remote := path.Join(d.remoteShot, name+".png")
	local := filepath.Join(dir, name+".png")
	if _, err := d.shell(ctx, "screencap", "-p", remote); err != nil {
		return "", fmt.Errorf("screencap: %w", err)
	}
	if _, err := d.adb(ctx, "pull", remote, local); err != nil {
		return "", fmt.Errorf("pull screenshot: %w", err)
	}
	return local, nil
}

// ReadTree dumps the hierarchy on the device, pulls it to dir/<name>.xml and
// parses it.
func (d *Device) ReadTree(ctx context.Context, name, dir string) (platform.Tree, error) {
	remote := path.Join(d.remoteXML, name+".xml")
	local := filepath.Join(dir, name+".xml")
	if _, err := d.shell(ctx, "uiautomator", "dump", remote); err != nil {
		return platform.Tree{}, fmt.Errorf("uiautomator dump: %w", err)
	}
	if _, err := d.adb(ctx, "pull", remote, local); err != nil {
		return platform.Tree{}, fmt.Errorf("pull hierarchy: %w", err)
	}
	nodes, err := ParseHierarchyFile(local)
	if err != nil {
		return platform.Tree{}, err
	}
	return platform.Tree{Path: local, Nodes: nodes}, nil
}

var sizeRe = regexp.MustCompile(`(Physical|Override) size:\s*(\d+)x(\d+)`)

// ParseWMSize extracts the effective resolution from `wm size` output. An
// override size takes precedence over the physical size.
func ParseWMSize(out string) (width, height int, err error) {
	for _, m := range sizeRe.FindAllStringSubmatch(out, -1) {
		w, _ := strconv.Atoi(m[2])
		h, _ := strconv.Atoi(m[3])
		width, height = w, h
		if m[1] == "Override" {
			break
		}
	}
	if width == 0 || height == 0 {
		return 0, 0, fmt.Errorf("no screen size in %q", strings.TrimSpace(out))
	}
	return width, height, nil
}

// Size returns the screen resolution. The first successful query is kept;
// failures are retried on the next call.
func (d *Device) Size(ctx context.Context) (int, int, error) {
	if d.overrideW > 0 && d.overrideH > 0 {
		return d.overrideW, d.overrideH, nil
	}
	d.sizeMu.Lock()
	defer d.sizeMu.Unlock()
	if d.width > 0 && d.height > 0 {
		return d.width, d.height, nil
	}
	out, err := d.shell(ctx, "wm", "size")
	if err != nil {
		return 0, 0, fmt.Errorf("wm size: %w", err)
	}
	w, h, err := ParseWMSize(out)
	if err != nil {
		return 0, 0, err
	}
	d.width, d.height = w, h
	return w, h, nil
}

func (d *Device) Tap(ctx context.Context, p model.Point) error {
	_, err := d.shell(ctx, "input", "tap", itoa(p.X), itoa(p.Y))
	return err
}

func (d *Device) LongPress(ctx context.Context, p model.Point) error {
	_, err := d.shell(ctx, "input", "swipe", itoa(p.X), itoa(p.Y), itoa(p.X), itoa(p.Y), itoa(longPressDuration))
	return err
}

// Text types value into the focused field.
func (d *Device) Text(ctx context.Context, value string, mode platform.TextMode) error {
	var err error
	if mode == platform.TextUnicode {
		msg := strings.ReplaceAll(value, "'", "")
		_, err = d.shell(ctx, "am", "broadcast", "-a", "ADB_INPUT_TEXT", "--es", "msg", "'"+msg+"'")
	} else {
		_, err = d.shell(ctx, "input", "text", EscapeInputText(value))
	}
	return err
}

// EscapeInputText prepares value for `input text`: spaces become %s, single
// quotes are dropped and device-shell metacharacters are escaped.
func EscapeInputText(value string) string {
	var b strings.Builder
	for _, r := range value {
		switch r {
		case ' ':
			b.WriteString("%s")
		case '\'':
		case '(', ')', '<', '>', '|', ';', '&', '*', '\\', '~', '"', '$', '`', '?', '#':
			b.WriteRune('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SwipeVector returns the offset for a directional swipe on a screen of the
// given width. The unit is a tenth of the width; vertical swipes travel two
// units, horizontal swipes one, scaled by distance.
func SwipeVector(width int, dir model.Direction, dist model.Distance) (dx, dy int) {
	unit := width / 10
	switch dist {
	case model.DistMedium:
		unit *= 2
	case model.DistLong:
		unit *= 3
	}
	switch dir {
	case model.DirUp:
		return 0, -2 * unit
	case model.DirDown:
		return 0, 2 * unit
	case model.DirLeft:
		return -unit, 0
	case model.DirRight:
		return unit, 0
	}
	return 0, 0
}

func (d *Device) Swipe(ctx context.Context, p model.Point, dir model.Direction, dist model.Distance) error {
	width, _, err := d.Size(ctx)
	if err != nil {
		return err
	}
	dx, dy := SwipeVector(width, dir, dist)
	if dx == 0 && dy == 0 {
		return fmt.Errorf("invalid swipe direction %q", dir)
	}
	return d.SwipePrecise(ctx, p, model.Point{X: p.X + dx, Y: p.Y + dy})
}

func (d *Device) SwipePrecise(ctx context.Context, from, to model.Point) error {
	_, err := d.shell(ctx, "input", "swipe", itoa(from.X), itoa(from.Y), itoa(to.X), itoa(to.Y), itoa(swipeDuration))
	return err
}

// Devices lists attached devices from `adb devices`.
func (d *Device) Devices(ctx context.Context) ([]platform.Device, error) {
	out, err := d.run(ctx, d.cmd[0], append(append([]string{}, d.cmd[1:]...), "devices")...)
	if err != nil {
		return nil, fmt.Errorf("adb devices: %w", err)
	}
	return ParseDevices(out), nil
}

// ParseDevices parses `adb devices` output.
func ParseDevices(out string) []platform.Device {
	var devices []platform.Device
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "List of devices") || strings.HasPrefix(line, "*") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		devices = append(devices, platform.Device{Serial: fields[0], State: fields[1]})
	}
	return devices
}

func itoa(i int) string { return strconv.Itoa(i) }

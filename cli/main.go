package main

import (
	"fmt"
	"os"
	"time"

	"github.com/BertoldVdb/i2ctap/gpioedge"
	"github.com/BertoldVdb/i2ctap/i2cdec"
	"github.com/alecthomas/kong"
)

type Context struct {
	profile i2cdec.Profile
	logFunc i2cdec.LogFunc
}

var CLI struct {
	Chip     string        `optional help:"GPIO character device carrying the tapped lines." default:"gpiochip0"`
	SCL      int           `optional name:"scl" help:"Line offset of the bus clock." default:"23"`
	SDA      int           `optional name:"sda" help:"Line offset of the bus data." default:"24"`
	Debounce time.Duration `optional help:"Kernel debounce period for electrically noisy taps."`

	HID         bool          `optional name:"hid" help:"Sample through an MCP2221A USB bridge instead of GPIO."`
	VID         int           `optional type:"hex" help:"The USB Vendor ID." default:4d8`
	PID         int           `optional type:"hex" help:"The USB Product ID." default:dd`
	Serial      string        `optional help:"The USB Serial."`
	RawPath     string        `optional help:"The USB Device Path."`
	SampleEvery time.Duration `optional help:"Bridge poll period." default:"1ms"`

	Addr          int  `optional type:"hex" help:"Address of the polled device." default:38`
	PollReg       int  `optional type:"hex" help:"Status register selector byte." default:2`
	FreshMask     int  `optional type:"hex" help:"Mask for the first response byte, 0 keeps touch count semantics."`
	FreshValue    int  `optional type:"hex" help:"Masked value that means fresh data."`
	FreshOnChange bool `optional help:"Also require the payload to differ from the previous fresh one."`

	Queue    int `optional help:"Edge queue depth." default:"4096"`
	LogLevel int `optional help:"Higher values give more output."`

	Watch     WatchCmd     `cmd help:"Decode live bus traffic and show poll statistics."`
	Selftest  SelftestCmd  `cmd help:"Run a synthetic capture through the decode pipeline."`
	ListChips ListChipsCmd `cmd name:"list-chips" help:"List GPIO character devices."`
	ListHID   ListHIDCmd   `cmd name:"list-hid" help:"List HID devices."`
}

func buildProfile() i2cdec.Profile {
	profile := i2cdec.ProfileFT6x36()
	profile.Addr = byte(CLI.Addr)
	profile.PollReg = byte(CLI.PollReg)

	if CLI.FreshMask != 0 {
		profile.Fresh = i2cdec.FreshByteMask(byte(CLI.FreshMask), byte(CLI.FreshValue))
	}
	if CLI.FreshOnChange {
		profile.Fresh = i2cdec.FreshOnChange(profile.Fresh)
	}

	return profile
}

func openSource(h gpioedge.Handler, onError func(error)) (gpioedge.Source, error) {
	if CLI.HID {
		dev, err := OpenDevice()
		if err != nil {
			return nil, err
		}

		src, err := gpioedge.OpenMCP2221(dev, gpioedge.SamplerConfig{
			Every:   CLI.SampleEvery,
			OnError: onError,
		}, h)
		if err != nil {
			dev.Close()
			return nil, err
		}

		return src, nil
	}

	return gpioedge.OpenChip(gpioedge.ChipConfig{
		Chip:      CLI.Chip,
		SCLOffset: CLI.SCL,
		SDAOffset: CLI.SDA,
		Debounce:  CLI.Debounce,
	}, h)
}

func main() {
	k, err := kong.New(&CLI,
		kong.NamedMapper("int", intMapper{}),
		kong.NamedMapper("hex", intMapper{base: 16}))
	if err != nil {
		fmt.Println(err)
		return
	}

	ctx, err := k.Parse(os.Args[1:])
	if err != nil {
		fmt.Println(err)
		return
	}

	c := &Context{
		profile: buildProfile(),

		logFunc: func(level int, format string, param ...interface{}) {
			if level > CLI.LogLevel {
				return
			}
			str := fmt.Sprintf(format, param...)
			fmt.Printf("TAP(%d): %s\n", level, str)
		},
	}

	err = ctx.Run(c)
	ctx.FatalIfErrorf(err)
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"errors"
	"fmt"
)

// ErrUnknownIcon is returned when a taxonomy entry names an icon outside
// the supported set.
var ErrUnknownIcon = errors.New("unknown icon")

// Icon is the symbolic name of a topic icon. The zero value means no icon.
type Icon string

const (
	IconNone       Icon = ""
	IconMic        Icon = "mic"
	IconWaveform   Icon = "waveform"
	IconBrain      Icon = "brain"
	IconCPU        Icon = "cpu"
	IconMessage    Icon = "message"
	IconBook       Icon = "book"
	IconLayers     Icon = "layers"
	IconZap        Icon = "zap"
	IconShield     Icon = "shield"
	IconChart      Icon = "chart"
	IconGlobe      Icon = "globe"
	IconCode       Icon = "code"
	IconHeadphones Icon = "headphones"
	IconSettings   Icon = "settings"
)

// iconGlyphs maps every supported icon to the glyph rendered in navigation.
var iconGlyphs = map[Icon]string{
	IconNone:       "",
	IconMic:        "🎙",
	IconWaveform:   "〰",
	IconBrain:      "🧠",
	IconCPU:        "⚙",
	IconMessage:    "💬",
	IconBook:       "📖",
	IconLayers:     "🗂",
	IconZap:        "⚡",
	IconShield:     "🛡",
	IconChart:      "📊",
	IconGlobe:      "🌐",
	IconCode:       "⌨",
	IconHeadphones: "🎧",
	IconSettings:   "🔧",
}

// Icons returns all supported icons except IconNone, in declaration order.
func Icons() []Icon {
	return []Icon{
		IconMic, IconWaveform, IconBrain, IconCPU, IconMessage, IconBook, IconLayers,
		IconZap, IconShield, IconChart, IconGlobe, IconCode, IconHeadphones, IconSettings,
	}
}

// ParseIcon validates an icon name.
func ParseIcon(name string) (Icon, error) {
	icon := Icon(name)
	if _, ok := iconGlyphs[icon]; !ok {
		return IconNone, fmt.Errorf("%w: %q", ErrUnknownIcon, name)
	}
	return icon, nil
}

// Glyph returns the display glyph for the icon. Icons can only be built
// through ParseIcon or the declared constants, so every value has a glyph.
func (i Icon) Glyph() string {
	return iconGlyphs[i]
}

// UnmarshalText lets YAML and JSON decoders reject unknown icons while the
// taxonomy is loaded.
func (i *Icon) UnmarshalText(text []byte) error {
	icon, err := ParseIcon(string(text))
	if err != nil {
		return err
	}
	*i = icon
	return nil
}

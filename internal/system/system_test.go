package system

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForNormalizesDistros(t *testing.T) {
	cases := []struct {
		name   string
		os     string
		distro string
		flag   OSFlag
	}{
		{name: "Linux", os: Linux, distro: "Linux", flag: FlagLinux},
		{name: "ubuntu", os: Linux, distro: "Ubuntu", flag: FlagLinux},
		{name: "Arch", os: Linux, distro: "Arch", flag: FlagLinux},
		{name: "opensuse-tumbleweed", os: Linux, distro: "openSUSE", flag: FlagLinux},
		{name: "Macos", os: MacOS, distro: MacOS, flag: FlagMacOS},
		{name: "darwin", os: MacOS, distro: MacOS, flag: FlagMacOS},
		{name: "Windows", os: Windows, distro: Windows, flag: FlagWindows},
		{name: "Plan9", os: "Plan9", distro: "Plan9", flag: FlagNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			info := For(tc.name)
			assert.Equal(t, tc.os, info.OS)
			assert.Equal(t, tc.distro, info.Distro)
			assert.Equal(t, tc.flag, info.Flag())
		})
	}
}

func TestMatchesIsCaseInsensitive(t *testing.T) {
	ubuntu := For("Ubuntu")
	assert.True(t, ubuntu.Matches("linux"))
	assert.True(t, ubuntu.Matches("UBUNTU"))
	assert.False(t, ubuntu.Matches("Debian"))
	assert.False(t, ubuntu.Matches("Windows"))

	assert.True(t, For("Macos").Matches("MacOS"))
}

func TestDistroFromOSRelease(t *testing.T) {
	data := "NAME=\"Fedora Linux\"\nVERSION_ID=40\nID=fedora\nID_LIKE=rhel\n"
	assert.Equal(t, "Fedora", distroFromOSRelease(strings.NewReader(data)))
	assert.Equal(t, "Pop", distroFromOSRelease(strings.NewReader("ID=\"pop\"\n")))
	assert.Empty(t, distroFromOSRelease(strings.NewReader("NAME=x\n")))
}

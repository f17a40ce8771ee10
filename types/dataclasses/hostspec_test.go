package dataclasses_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"compute-worker-launcher/types/dataclasses"
)

type HostSpecTestSuite struct {
	suite.Suite
}

func TestHostSpecTestSuite(t *testing.T) {
	suite.Run(t, new(HostSpecTestSuite))
}

func (suite *HostSpecTestSuite) TestParseDirectDefaultPort() {
	specs, err := dataclasses.ParseHostList("render01.example.org")

	suite.NoError(err)
	suite.Len(specs, 1)

	direct, ok := specs[0].(*dataclasses.DirectHostSpec)
	suite.True(ok)
	suite.Equal("render01.example.org", direct.Host)
	suite.Equal(dataclasses.DefaultServerPort, direct.Port)
}

func (suite *HostSpecTestSuite) TestParseDirectExplicitPort() {
	specs, err := dataclasses.ParseHostList("render01:8000")

	suite.NoError(err)
	suite.Len(specs, 1)

	direct, ok := specs[0].(*dataclasses.DirectHostSpec)
	suite.True(ok)
	suite.Equal("render01", direct.Host)
	suite.Equal(8000, direct.Port)
}

func (suite *HostSpecTestSuite) TestParseDirectInvalidPort() {
	_, err := dataclasses.ParseHostList("render01:abc")

	suite.ErrorIs(err, dataclasses.ErrInvalidPort)
}

func (suite *HostSpecTestSuite) TestParseDirectTooManyTokens() {
	_, err := dataclasses.ParseHostList("render01:8000:extra")

	suite.ErrorIs(err, dataclasses.ErrInvalidHostSpec)
}

func (suite *HostSpecTestSuite) TestParseDirectNoTokens() {
	_, err := dataclasses.NewHostSpec(":")

	suite.ErrorIs(err, dataclasses.ErrInvalidHostSpec)
}

func (suite *HostSpecTestSuite) TestParseTunnelDefaultPath() {
	specs, err := dataclasses.ParseHostList("alice@render01.example.org")

	suite.NoError(err)
	suite.Len(specs, 1)

	tunnel, ok := specs[0].(*dataclasses.TunnelHostSpec)
	suite.True(ok)
	suite.Equal("alice", tunnel.User)
	suite.Equal("render01.example.org", tunnel.Host)
	suite.Equal(dataclasses.DefaultRemotePath, tunnel.RemotePath)
}

func (suite *HostSpecTestSuite) TestParseTunnelExplicitPath() {
	specs, err := dataclasses.ParseHostList("alice@render01:/opt/launcher")

	suite.NoError(err)
	suite.Len(specs, 1)

	tunnel, ok := specs[0].(*dataclasses.TunnelHostSpec)
	suite.True(ok)
	suite.Equal("alice", tunnel.User)
	suite.Equal("render01", tunnel.Host)
	suite.Equal("/opt/launcher", tunnel.RemotePath)
}

func (suite *HostSpecTestSuite) TestParseTunnelMissingHost() {
	_, err := dataclasses.ParseHostList("alice@")

	suite.ErrorIs(err, dataclasses.ErrInvalidHostSpec)
}

func (suite *HostSpecTestSuite) TestParseTunnelTooManyTokens() {
	_, err := dataclasses.ParseHostList("alice@render01:/opt:extra")

	suite.ErrorIs(err, dataclasses.ErrInvalidHostSpec)
}

func (suite *HostSpecTestSuite) TestParseEmptyList() {
	specs, err := dataclasses.ParseHostList("")

	suite.NoError(err)
	suite.Empty(specs)
}

func (suite *HostSpecTestSuite) TestParsePreservesOrder() {
	specs, err := dataclasses.ParseHostList("a;b;c")

	suite.NoError(err)
	suite.Len(specs, 3)
	suite.Equal("a", specs[0].GetRaw())
	suite.Equal("b", specs[1].GetRaw())
	suite.Equal("c", specs[2].GetRaw())
}

func (suite *HostSpecTestSuite) TestParseCommaSeparator() {
	specs, err := dataclasses.ParseHostList("a,b;c")

	suite.NoError(err)
	suite.Len(specs, 3)
}

func (suite *HostSpecTestSuite) TestParseSkipsEmptyEntries() {
	specs, err := dataclasses.ParseHostList(";a;;b;")

	suite.NoError(err)
	suite.Len(specs, 2)
	suite.Equal("a", specs[0].GetRaw())
	suite.Equal("b", specs[1].GetRaw())
}

func (suite *HostSpecTestSuite) TestLoadHostsFile() {
	path := filepath.Join(suite.T().TempDir(), "hosts.txt")
	content := "# render farm\nrender01:8000\n\nalice@render02\n   \nrender03\n"
	suite.NoError(os.WriteFile(path, []byte(content), 0644))

	hosts, err := dataclasses.LoadHostsFile(path)
	suite.NoError(err)
	suite.Equal("render01:8000;alice@render02;render03", hosts)

	specs, err := dataclasses.ParseHostList(hosts)
	suite.NoError(err)
	suite.Len(specs, 3)
	suite.IsType(&dataclasses.DirectHostSpec{}, specs[0])
	suite.IsType(&dataclasses.TunnelHostSpec{}, specs[1])
	suite.IsType(&dataclasses.DirectHostSpec{}, specs[2])
}

func (suite *HostSpecTestSuite) TestLoadHostsFileMissing() {
	_, err := dataclasses.LoadHostsFile(filepath.Join(suite.T().TempDir(), "absent.txt"))

	suite.Error(err)
}

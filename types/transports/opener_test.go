package transports_test

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/suite"

	"compute-worker-launcher/types/config"
	"compute-worker-launcher/types/dataclasses"
	"compute-worker-launcher/types/transports"
)

type unsupportedSpec struct{}

func (s *unsupportedSpec) GetRaw() string {
	return "unsupported"
}

type OpenerTestSuite struct {
	suite.Suite

	opener *transports.Opener
}

func TestOpenerTestSuite(t *testing.T) {
	suite.Run(t, new(OpenerTestSuite))
}

func (suite *OpenerTestSuite) SetupTest() {
	suite.opener = transports.NewOpener(config.GetConfig())
}

func (suite *OpenerTestSuite) TestOpenDirect() {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	suite.NoError(err)
	defer listener.Close()

	port := listener.Addr().(*net.TCPAddr).Port
	spec := &dataclasses.DirectHostSpec{
		Raw:  "127.0.0.1",
		Host: "127.0.0.1",
		Port: port,
	}

	stream, err := suite.opener.Open(context.Background(), spec)
	suite.NoError(err)
	suite.NotEmpty(stream.GetId())
	suite.Contains(stream.GetRemote(), "127.0.0.1")
	suite.NoError(stream.Close())
}

func (suite *OpenerTestSuite) TestOpenDirectConnectionRefused() {
	// Grab a port that is guaranteed to be closed again.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	suite.NoError(err)
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	spec := &dataclasses.DirectHostSpec{
		Raw:  "127.0.0.1",
		Host: "127.0.0.1",
		Port: port,
	}

	_, err = suite.opener.Open(context.Background(), spec)

	var transportErr *transports.TransportOpenError
	suite.True(errors.As(err, &transportErr))
	suite.Equal("127.0.0.1", transportErr.Spec)
	suite.NotNil(errors.Unwrap(transportErr))
}

func (suite *OpenerTestSuite) TestOpenUnsupportedSpec() {
	_, err := suite.opener.Open(context.Background(), &unsupportedSpec{})

	var transportErr *transports.TransportOpenError
	suite.True(errors.As(err, &transportErr))
}

func (suite *OpenerTestSuite) TestBuildRemoteCommand() {
	command := transports.BuildRemoteCommand(
		"bash -c 'cd %s; . setpath.sh; cwsrv -ls'",
		"/opt/launcher",
	)

	suite.Equal("bash -c 'cd /opt/launcher; . setpath.sh; cwsrv -ls'", command)
}

package scheduler_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/suite"

	"compute-worker-launcher/types/scheduler"
	"compute-worker-launcher/types/workers"
)

type closableStream struct {
	closed bool
}

func (s *closableStream) Read(p []byte) (int, error) {
	return 0, io.EOF
}

func (s *closableStream) Write(p []byte) (int, error) {
	return len(p), nil
}

func (s *closableStream) Close() error {
	s.closed = true
	return nil
}

func (s *closableStream) GetId() string {
	return "stream"
}

func (s *closableStream) GetRemote() string {
	return "remote"
}

type SchedulerTestSuite struct {
	suite.Suite

	scheduler *scheduler.Scheduler
}

func TestSchedulerTestSuite(t *testing.T) {
	suite.Run(t, new(SchedulerTestSuite))
}

func (suite *SchedulerTestSuite) SetupTest() {
	suite.scheduler = scheduler.NewScheduler()
}

func (suite *SchedulerTestSuite) TestRegisterWorker() {
	worker := workers.NewLocalWorker("wrk0")

	suite.NoError(suite.scheduler.RegisterWorker(worker))
	suite.Equal(worker, suite.scheduler.GetWorker("wrk0"))
	suite.Len(suite.scheduler.GetWorkers(), 1)
}

func (suite *SchedulerTestSuite) TestRegisterDuplicateName() {
	suite.NoError(suite.scheduler.RegisterWorker(workers.NewLocalWorker("wrk0")))

	err := suite.scheduler.RegisterWorker(workers.NewLocalWorker("wrk0"))
	suite.ErrorIs(err, scheduler.ErrDuplicateWorker)
}

func (suite *SchedulerTestSuite) TestRegisterAfterStart() {
	suite.NoError(suite.scheduler.Start())

	err := suite.scheduler.RegisterWorker(workers.NewLocalWorker("wrk0"))
	suite.ErrorIs(err, scheduler.ErrSchedulerStarted)
}

func (suite *SchedulerTestSuite) TestStartTwice() {
	suite.NoError(suite.scheduler.Start())
	suite.True(suite.scheduler.IsStarted())

	suite.ErrorIs(suite.scheduler.Start(), scheduler.ErrSchedulerStarted)
}

func (suite *SchedulerTestSuite) TestDeregisterWorker() {
	suite.NoError(suite.scheduler.RegisterWorker(workers.NewLocalWorker("wrk0")))
	suite.NoError(suite.scheduler.RegisterWorker(workers.NewLocalWorker("wrk1")))

	suite.NoError(suite.scheduler.DeregisterWorker("wrk0"))
	suite.Equal([]string{"wrk1"}, suite.scheduler.GetWorkerNames())
	suite.Nil(suite.scheduler.GetWorker("wrk0"))
}

func (suite *SchedulerTestSuite) TestDeregisterUnknownWorker() {
	err := suite.scheduler.DeregisterWorker("ghost")
	suite.ErrorIs(err, scheduler.ErrUnknownWorker)
}

func (suite *SchedulerTestSuite) TestDeregisterAfterStart() {
	suite.NoError(suite.scheduler.RegisterWorker(workers.NewLocalWorker("wrk0")))
	suite.NoError(suite.scheduler.Start())

	err := suite.scheduler.DeregisterWorker("wrk0")
	suite.ErrorIs(err, scheduler.ErrSchedulerStarted)
}

func (suite *SchedulerTestSuite) TestWorkerNamesKeepRegistrationOrder() {
	suite.NoError(suite.scheduler.RegisterWorker(workers.NewLocalWorker("wrk0")))
	suite.NoError(suite.scheduler.RegisterWorker(workers.NewRemoteWorker("net0", &closableStream{})))
	suite.NoError(suite.scheduler.RegisterWorker(workers.NewLocalWorker("wrk1")))

	suite.Equal([]string{"wrk0", "net0", "wrk1"}, suite.scheduler.GetWorkerNames())
}

func (suite *SchedulerTestSuite) TestShutdownClosesRemoteWorkers() {
	stream := &closableStream{}
	suite.NoError(suite.scheduler.RegisterWorker(workers.NewLocalWorker("wrk0")))
	suite.NoError(suite.scheduler.RegisterWorker(workers.NewRemoteWorker("net0", stream)))
	suite.NoError(suite.scheduler.Start())

	suite.NoError(suite.scheduler.Shutdown(context.Background()))
	suite.True(stream.closed)
	suite.Empty(suite.scheduler.GetWorkers())
	suite.False(suite.scheduler.IsStarted())
}

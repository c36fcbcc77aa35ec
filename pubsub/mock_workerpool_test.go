package pubsub

// Hand-written in the shape mockgen would produce for WorkerPool
// (github.com/alreschas/pubsub-go/pubsub -destination mock_workerpool_test.go
// -package pubsub WorkerPool), used where a test needs to assert how many
// times Submit is called rather than just observe delivered messages.

import (
	"reflect"

	"go.uber.org/mock/gomock"
)

type MockWorkerPool struct {
	ctrl     *gomock.Controller
	recorder *MockWorkerPoolMockRecorder
}

type MockWorkerPoolMockRecorder struct {
	mock *MockWorkerPool
}

func NewMockWorkerPool(ctrl *gomock.Controller) *MockWorkerPool {
	m := &MockWorkerPool{ctrl: ctrl}
	m.recorder = &MockWorkerPoolMockRecorder{m}
	return m
}

func (m *MockWorkerPool) EXPECT() *MockWorkerPoolMockRecorder {
	return m.recorder
}

func (m *MockWorkerPool) Submit(fn func()) Handle {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Submit", fn)
	h, _ := ret[0].(Handle)
	return h
}

func (mr *MockWorkerPoolMockRecorder) Submit(fn any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Submit", reflect.TypeOf((*MockWorkerPool)(nil).Submit), fn)
}

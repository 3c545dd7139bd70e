// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package rollup is a generated GoMock package.
package rollup

import (
	context "context"
	reflect "reflect"

	gomock "go.uber.org/mock/gomock"
)

// MockState is a mock of State interface.
type MockState struct {
	ctrl     *gomock.Controller
	recorder *MockStateMockRecorder
}

// MockStateMockRecorder is the mock recorder for MockState.
type MockStateMockRecorder struct {
	mock *MockState
}

// NewMockState creates a new mock instance.
func NewMockState(ctrl *gomock.Controller) *MockState {
	mock := &MockState{ctrl: ctrl}
	mock.recorder = &MockStateMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockState) EXPECT() *MockStateMockRecorder {
	return m.recorder
}

// BlockInfo mocks base method.
func (m *MockState) BlockInfo() BlockInfo {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BlockInfo")
	ret0, _ := ret[0].(BlockInfo)
	return ret0
}

// BlockInfo indicates an expected call of BlockInfo.
func (mr *MockStateMockRecorder) BlockInfo() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BlockInfo", reflect.TypeOf((*MockState)(nil).BlockInfo))
}

// GetStorage mocks base method.
func (m *MockState) GetStorage(arg0 Address, arg1 Key) Felt {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetStorage", arg0, arg1)
	ret0, _ := ret[0].(Felt)
	return ret0
}

// GetStorage indicates an expected call of GetStorage.
func (mr *MockStateMockRecorder) GetStorage(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetStorage", reflect.TypeOf((*MockState)(nil).GetStorage), arg0, arg1)
}

// SetStorage mocks base method.
func (m *MockState) SetStorage(arg0 Address, arg1 Key, arg2 Felt) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetStorage", arg0, arg1, arg2)
	ret0, _ := ret[0].(error)
	return ret0
}

// SetStorage indicates an expected call of SetStorage.
func (mr *MockStateMockRecorder) SetStorage(arg0, arg1, arg2 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetStorage", reflect.TypeOf((*MockState)(nil).SetStorage), arg0, arg1, arg2)
}

// GetClassHashAt mocks base method.
func (m *MockState) GetClassHashAt(arg0 Address) ClassHash {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetClassHashAt", arg0)
	ret0, _ := ret[0].(ClassHash)
	return ret0
}

// GetClassHashAt indicates an expected call of GetClassHashAt.
func (mr *MockStateMockRecorder) GetClassHashAt(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetClassHashAt", reflect.TypeOf((*MockState)(nil).GetClassHashAt), arg0)
}

// SetClassHashAt mocks base method.
func (m *MockState) SetClassHashAt(arg0 Address, arg1 ClassHash) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetClassHashAt", arg0, arg1)
	ret0, _ := ret[0].(error)
	return ret0
}

// SetClassHashAt indicates an expected call of SetClassHashAt.
func (mr *MockStateMockRecorder) SetClassHashAt(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetClassHashAt", reflect.TypeOf((*MockState)(nil).SetClassHashAt), arg0, arg1)
}

// GetNonce mocks base method.
func (m *MockState) GetNonce(arg0 Address) Felt {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetNonce", arg0)
	ret0, _ := ret[0].(Felt)
	return ret0
}

// GetNonce indicates an expected call of GetNonce.
func (mr *MockStateMockRecorder) GetNonce(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetNonce", reflect.TypeOf((*MockState)(nil).GetNonce), arg0)
}

// SetNonce mocks base method.
func (m *MockState) SetNonce(arg0 Address, arg1 Felt) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetNonce", arg0, arg1)
	ret0, _ := ret[0].(error)
	return ret0
}

// SetNonce indicates an expected call of SetNonce.
func (mr *MockStateMockRecorder) SetNonce(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetNonce", reflect.TypeOf((*MockState)(nil).SetNonce), arg0, arg1)
}

// GetContractClass mocks base method.
func (m *MockState) GetContractClass(arg0 ClassHash) (*ContractClass, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetContractClass", arg0)
	ret0, _ := ret[0].(*ContractClass)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetContractClass indicates an expected call of GetContractClass.
func (mr *MockStateMockRecorder) GetContractClass(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetContractClass", reflect.TypeOf((*MockState)(nil).GetContractClass), arg0)
}

// SetContractClass mocks base method.
func (m *MockState) SetContractClass(arg0 ClassHash, arg1 *ContractClass) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetContractClass", arg0, arg1)
	ret0, _ := ret[0].(error)
	return ret0
}

// SetContractClass indicates an expected call of SetContractClass.
func (mr *MockStateMockRecorder) SetContractClass(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetContractClass", reflect.TypeOf((*MockState)(nil).SetContractClass), arg0, arg1)
}

// BeginNested mocks base method.
func (m *MockState) BeginNested() (NestedState, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BeginNested")
	ret0, _ := ret[0].(NestedState)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// BeginNested indicates an expected call of BeginNested.
func (mr *MockStateMockRecorder) BeginNested() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BeginNested", reflect.TypeOf((*MockState)(nil).BeginNested))
}

// MockNestedState is a mock of NestedState interface.
type MockNestedState struct {
	ctrl     *gomock.Controller
	recorder *MockNestedStateMockRecorder
}

// MockNestedStateMockRecorder is the mock recorder for MockNestedState.
type MockNestedStateMockRecorder struct {
	mock *MockNestedState
}

// NewMockNestedState creates a new mock instance.
func NewMockNestedState(ctrl *gomock.Controller) *MockNestedState {
	mock := &MockNestedState{ctrl: ctrl}
	mock.recorder = &MockNestedStateMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockNestedState) EXPECT() *MockNestedStateMockRecorder {
	return m.recorder
}

// BeginNested mocks base method.
func (m *MockNestedState) BeginNested() (NestedState, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BeginNested")
	ret0, _ := ret[0].(NestedState)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// BeginNested indicates an expected call of BeginNested.
func (mr *MockNestedStateMockRecorder) BeginNested() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BeginNested", reflect.TypeOf((*MockNestedState)(nil).BeginNested))
}

// BlockInfo mocks base method.
func (m *MockNestedState) BlockInfo() BlockInfo {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BlockInfo")
	ret0, _ := ret[0].(BlockInfo)
	return ret0
}

// BlockInfo indicates an expected call of BlockInfo.
func (mr *MockNestedStateMockRecorder) BlockInfo() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BlockInfo", reflect.TypeOf((*MockNestedState)(nil).BlockInfo))
}

// Commit mocks base method.
func (m *MockNestedState) Commit() error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Commit")
	ret0, _ := ret[0].(error)
	return ret0
}

// Commit indicates an expected call of Commit.
func (mr *MockNestedStateMockRecorder) Commit() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Commit", reflect.TypeOf((*MockNestedState)(nil).Commit))
}

// Discard mocks base method.
func (m *MockNestedState) Discard() {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "Discard")
}

// Discard indicates an expected call of Discard.
func (mr *MockNestedStateMockRecorder) Discard() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Discard", reflect.TypeOf((*MockNestedState)(nil).Discard))
}

// GetClassHashAt mocks base method.
func (m *MockNestedState) GetClassHashAt(arg0 Address) ClassHash {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetClassHashAt", arg0)
	ret0, _ := ret[0].(ClassHash)
	return ret0
}

// GetClassHashAt indicates an expected call of GetClassHashAt.
func (mr *MockNestedStateMockRecorder) GetClassHashAt(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetClassHashAt", reflect.TypeOf((*MockNestedState)(nil).GetClassHashAt), arg0)
}

// GetContractClass mocks base method.
func (m *MockNestedState) GetContractClass(arg0 ClassHash) (*ContractClass, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetContractClass", arg0)
	ret0, _ := ret[0].(*ContractClass)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetContractClass indicates an expected call of GetContractClass.
func (mr *MockNestedStateMockRecorder) GetContractClass(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetContractClass", reflect.TypeOf((*MockNestedState)(nil).GetContractClass), arg0)
}

// GetNonce mocks base method.
func (m *MockNestedState) GetNonce(arg0 Address) Felt {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetNonce", arg0)
	ret0, _ := ret[0].(Felt)
	return ret0
}

// GetNonce indicates an expected call of GetNonce.
func (mr *MockNestedStateMockRecorder) GetNonce(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetNonce", reflect.TypeOf((*MockNestedState)(nil).GetNonce), arg0)
}

// GetStorage mocks base method.
func (m *MockNestedState) GetStorage(arg0 Address, arg1 Key) Felt {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetStorage", arg0, arg1)
	ret0, _ := ret[0].(Felt)
	return ret0
}

// GetStorage indicates an expected call of GetStorage.
func (mr *MockNestedStateMockRecorder) GetStorage(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetStorage", reflect.TypeOf((*MockNestedState)(nil).GetStorage), arg0, arg1)
}

// SetClassHashAt mocks base method.
func (m *MockNestedState) SetClassHashAt(arg0 Address, arg1 ClassHash) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetClassHashAt", arg0, arg1)
	ret0, _ := ret[0].(error)
	return ret0
}

// SetClassHashAt indicates an expected call of SetClassHashAt.
func (mr *MockNestedStateMockRecorder) SetClassHashAt(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetClassHashAt", reflect.TypeOf((*MockNestedState)(nil).SetClassHashAt), arg0, arg1)
}

// SetContractClass mocks base method.
func (m *MockNestedState) SetContractClass(arg0 ClassHash, arg1 *ContractClass) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetContractClass", arg0, arg1)
	ret0, _ := ret[0].(error)
	return ret0
}

// SetContractClass indicates an expected call of SetContractClass.
func (mr *MockNestedStateMockRecorder) SetContractClass(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetContractClass", reflect.TypeOf((*MockNestedState)(nil).SetContractClass), arg0, arg1)
}

// SetNonce mocks base method.
func (m *MockNestedState) SetNonce(arg0 Address, arg1 Felt) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetNonce", arg0, arg1)
	ret0, _ := ret[0].(error)
	return ret0
}

// SetNonce indicates an expected call of SetNonce.
func (mr *MockNestedStateMockRecorder) SetNonce(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetNonce", reflect.TypeOf((*MockNestedState)(nil).SetNonce), arg0, arg1)
}

// SetStorage mocks base method.
func (m *MockNestedState) SetStorage(arg0 Address, arg1 Key, arg2 Felt) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetStorage", arg0, arg1, arg2)
	ret0, _ := ret[0].(error)
	return ret0
}

// SetStorage indicates an expected call of SetStorage.
func (mr *MockNestedStateMockRecorder) SetStorage(arg0, arg1, arg2 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetStorage", reflect.TypeOf((*MockNestedState)(nil).SetStorage), arg0, arg1, arg2)
}

// MockContractVM is a mock of ContractVM interface.
type MockContractVM struct {
	ctrl     *gomock.Controller
	recorder *MockContractVMMockRecorder
}

// MockContractVMMockRecorder is the mock recorder for MockContractVM.
type MockContractVMMockRecorder struct {
	mock *MockContractVM
}

// NewMockContractVM creates a new mock instance.
func NewMockContractVM(ctrl *gomock.Controller) *MockContractVM {
	mock := &MockContractVM{ctrl: ctrl}
	mock.recorder = &MockContractVMMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockContractVM) EXPECT() *MockContractVMMockRecorder {
	return m.recorder
}

// Execute mocks base method.
func (m *MockContractVM) Execute(arg0 context.Context, arg1 CallRequest, arg2 State, arg3 *GeneralConfig, arg4 *TransactionContext) (*CallInfo, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Execute", arg0, arg1, arg2, arg3, arg4)
	ret0, _ := ret[0].(*CallInfo)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Execute indicates an expected call of Execute.
func (mr *MockContractVMMockRecorder) Execute(arg0, arg1, arg2, arg3, arg4 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Execute", reflect.TypeOf((*MockContractVM)(nil).Execute), arg0, arg1, arg2, arg3, arg4)
}

// MockStorage is a mock of Storage interface.
type MockStorage struct {
	ctrl     *gomock.Controller
	recorder *MockStorageMockRecorder
}

// MockStorageMockRecorder is the mock recorder for MockStorage.
type MockStorageMockRecorder struct {
	mock *MockStorage
}

// NewMockStorage creates a new mock instance.
func NewMockStorage(ctrl *gomock.Controller) *MockStorage {
	mock := &MockStorage{ctrl: ctrl}
	mock.recorder = &MockStorageMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockStorage) EXPECT() *MockStorageMockRecorder {
	return m.recorder
}

// Get mocks base method.
func (m *MockStorage) Get(arg0 []byte) ([]byte, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", arg0)
	ret0, _ := ret[0].([]byte)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Get indicates an expected call of Get.
func (mr *MockStorageMockRecorder) Get(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockStorage)(nil).Get), arg0)
}

// Put mocks base method.
func (m *MockStorage) Put(arg0 []byte, arg1 []byte) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Put", arg0, arg1)
	ret0, _ := ret[0].(error)
	return ret0
}

// Put indicates an expected call of Put.
func (mr *MockStorageMockRecorder) Put(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Put", reflect.TypeOf((*MockStorage)(nil).Put), arg0, arg1)
}

// PutAll mocks base method.
func (m *MockStorage) PutAll(arg0 []Entry) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PutAll", arg0)
	ret0, _ := ret[0].(error)
	return ret0
}

// PutAll indicates an expected call of PutAll.
func (mr *MockStorageMockRecorder) PutAll(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PutAll", reflect.TypeOf((*MockStorage)(nil).PutAll), arg0)
}

// Has mocks base method.
func (m *MockStorage) Has(arg0 []byte) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Has", arg0)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Has indicates an expected call of Has.
func (mr *MockStorageMockRecorder) Has(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Has", reflect.TypeOf((*MockStorage)(nil).Has), arg0)
}

// ForEach mocks base method.
func (m *MockStorage) ForEach(arg0 func([]byte, []byte) error) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ForEach", arg0)
	ret0, _ := ret[0].(error)
	return ret0
}

// ForEach indicates an expected call of ForEach.
func (mr *MockStorageMockRecorder) ForEach(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ForEach", reflect.TypeOf((*MockStorage)(nil).ForEach), arg0)
}

// Copy mocks base method.
func (m *MockStorage) Copy() (Storage, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Copy")
	ret0, _ := ret[0].(Storage)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Copy indicates an expected call of Copy.
func (mr *MockStorageMockRecorder) Copy() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Copy", reflect.TypeOf((*MockStorage)(nil).Copy))
}

// Close mocks base method.
func (m *MockStorage) Close() error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Close")
	ret0, _ := ret[0].(error)
	return ret0
}

// Close indicates an expected call of Close.
func (mr *MockStorageMockRecorder) Close() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Close", reflect.TypeOf((*MockStorage)(nil).Close))
}

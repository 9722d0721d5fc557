package contract

import (
	"fmt"
	"sort"
	"sync"
)

// MethodRegistry is the in-memory KernRegistry
type MethodRegistry struct {
	mutex   sync.RWMutex
	methods map[string]map[string]KernMethod
}

// NewKernRegistry returns an empty registry
func NewKernRegistry() *MethodRegistry {
	return &MethodRegistry{
		methods: make(map[string]map[string]KernMethod),
	}
}

func (r *MethodRegistry) RegisterKernMethod(ctract, method string, handler KernMethod) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	contractMap, ok := r.methods[ctract]
	if !ok {
		contractMap = make(map[string]KernMethod)
		r.methods[ctract] = contractMap
	}
	_, ok = contractMap[method]
	if ok {
		panic(fmt.Sprintf("kernel method `%s' for `%s' exists", method, ctract))
	}
	contractMap[method] = handler
}

func (r *MethodRegistry) GetKernMethod(ctract, method string) (KernMethod, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	contractMap, ok := r.methods[ctract]
	if !ok {
		return nil, fmt.Errorf("kernel contract '%s' not found", ctract)
	}
	contractMethod, ok := contractMap[method]
	if !ok {
		return nil, fmt.Errorf("kernel method '%s' for '%s' not exists", method, ctract)
	}
	return contractMethod, nil
}

// ListMethods returns the sorted method names of a contract
func (r *MethodRegistry) ListMethods(ctract string) []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, 0, len(r.methods[ctract]))
	for name := range r.methods[ctract] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

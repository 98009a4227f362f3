package cat

import (
	"errors"
	"sort"
	"sync"

	"github.com/ftl/sim-toolkit/sim"
)

var ErrUnknownSlot = errors.New("unknown slot")

// ServiceFactory creates the service of a slot.
type ServiceFactory func(slot sim.Slot, radio Radio, deps RadioDeps) *Service

// Registry holds one service per slot. A service is created when its slot is seen the first time,
// later radios of the same slot are handed to the existing service.
type Registry struct {
	factory  ServiceFactory
	lock     sync.Mutex
	services map[sim.Slot]*Service
}

func NewRegistry(factory ServiceFactory) *Registry {
	return &Registry{
		factory:  factory,
		services: make(map[sim.Slot]*Service),
	}
}

// Service returns the service of the given slot, creating it if necessary. An existing service continues
// with the given radio and its collaborators.
func (r *Registry) Service(slot sim.Slot, radio Radio, deps RadioDeps) *Service {
	r.lock.Lock()
	defer r.lock.Unlock()

	if service, ok := r.services[slot]; ok {
		service.UpdateRadio(radio, deps)
		return service
	}
	service := r.factory(slot, radio, deps)
	r.services[slot] = service
	return service
}

func (r *Registry) Lookup(slot sim.Slot) (*Service, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	service, ok := r.services[slot]
	if !ok {
		return nil, ErrUnknownSlot
	}
	return service, nil
}

// Slots returns the known slots in ascending order.
func (r *Registry) Slots() []sim.Slot {
	r.lock.Lock()
	defer r.lock.Unlock()

	result := make([]sim.Slot, 0, len(r.services))
	for slot := range r.services {
		result = append(result, slot)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// Dispose stops the service of the given slot and forgets it.
func (r *Registry) Dispose(slot sim.Slot) error {
	r.lock.Lock()
	service, ok := r.services[slot]
	delete(r.services, slot)
	r.lock.Unlock()

	if !ok {
		return ErrUnknownSlot
	}
	service.Dispose()
	return nil
}

// Close disposes all services.
func (r *Registry) Close() {
	r.lock.Lock()
	services := r.services
	r.services = make(map[sim.Slot]*Service)
	r.lock.Unlock()

	for _, service := range services {
		service.Dispose()
	}
}

// OnCmdResponse hands the application's response to a command to the service of the given slot.
func (r *Registry) OnCmdResponse(slot sim.Slot, response Response) error {
	service, err := r.Lookup(slot)
	if err != nil {
		return err
	}
	return service.OnCmdResponse(response)
}

// OnEventResponse hands an event reported by the application to the service of the given slot.
func (r *Registry) OnEventResponse(slot sim.Slot, response Response) error {
	service, err := r.Lookup(slot)
	if err != nil {
		return err
	}
	return service.OnEventResponse(response)
}

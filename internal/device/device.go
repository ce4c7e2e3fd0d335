// Package device picks where models run. The probe runs once per process.
package device

import (
	"os"
	"os/exec"
	"sync"
)

type Device string

const (
	CPU  Device = "cpu"
	CUDA Device = "cuda"
)

func (d Device) String() string { return string(d) }

// Probe reports whether an accelerator is usable.
type Probe func() bool

var (
	once     sync.Once
	detected Device
)

// Detect returns CUDA when an NVIDIA device is present and CPU otherwise.
// The result is computed on first call and reused.
func Detect() Device {
	once.Do(func() {
		detected = Select(nvidiaDeviceNode, nvidiaDriver, nvidiaSMI)
	})
	return detected
}

// Select returns CUDA if any probe succeeds.
func Select(probes ...Probe) Device {
	for _, p := range probes {
		if p() {
			return CUDA
		}
	}
	return CPU
}

func nvidiaDeviceNode() bool {
	_, err := os.Stat("/dev/nvidia0")
	return err == nil
}

func nvidiaDriver() bool {
	_, err := os.Stat("/proc/driver/nvidia/version")
	return err == nil
}

func nvidiaSMI() bool {
	_, err := exec.LookPath("nvidia-smi")
	return err == nil
}

package dto

import (
	"time"

	"github.com/joy-dx/netpipe/utils"
)

// RequestConfig wraps a descriptor with execution policy: which
// transport to use, outer retry budget, delay strategy, timeout.
type RequestConfig struct {
	// ClientRef Determines which transport backend to use
	ClientRef  string        `json:"client_ref" yaml:"client_ref"`
	Descriptor *Descriptor   `json:"descriptor" yaml:"descriptor"`
	Timeout    time.Duration `json:"timeout" yaml:"timeout"`
	MaxRetries int           `json:"max_retries" yaml:"max_retries"`
	Delay      utils.RetryDelay `json:"-" yaml:"-"`
	TaskName   string        `json:"task_name" yaml:"task_name"`
}

func DefaultRequestConfig() RequestConfig {
	return RequestConfig{
		ClientRef:  DefaultClientRef,
		Timeout:    20 * time.Second,
		MaxRetries: 3,
		Delay:      utils.ExponentialBackoff{},
	}
}

func (c *RequestConfig) WithClientRef(ref string) *RequestConfig {
	c.ClientRef = ref
	return c
}

func (c *RequestConfig) WithDescriptor(d *Descriptor) *RequestConfig {
	c.Descriptor = d
	return c
}

func (c *RequestConfig) WithTimeout(duration time.Duration) *RequestConfig {
	c.Timeout = duration
	return c
}

func (c *RequestConfig) WithMaxRetries(count int) *RequestConfig {
	c.MaxRetries = count
	return c
}

func (c *RequestConfig) WithDelay(delay utils.RetryDelay) *RequestConfig {
	c.Delay = delay
	return c
}

func (c *RequestConfig) WithTaskName(name string) *RequestConfig {
	c.TaskName = name
	return c
}

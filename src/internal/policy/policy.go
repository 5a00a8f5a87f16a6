package policy

import (
	"sync/atomic"

	"github.com/spf13/viper"

	"dispatch-service/src/internal/fare"
)

// Policy is the read-only pricing/dispatch policy snapshot handed to
// usecases. Values change only through an explicit Reload, never behind the
// readers' backs.
type Policy struct {
	CommissionPercent      int64
	DefaultDeadlineMinutes int
}

type Provider struct {
	v   *viper.Viper
	cur atomic.Pointer[Policy]
}

func NewProvider(v *viper.Viper) *Provider {
	p := &Provider{v: v}
	p.Reload()
	return p
}

func (p *Provider) Current() Policy {
	return *p.cur.Load()
}

// Reload re-reads the policy keys and swaps the snapshot atomically.
func (p *Provider) Reload() Policy {
	next := Policy{
		CommissionPercent:      p.v.GetInt64("policy.commission_percent"),
		DefaultDeadlineMinutes: p.v.GetInt("policy.default_deadline_minutes"),
	}
	if next.CommissionPercent <= 0 {
		next.CommissionPercent = fare.DefaultCommissionPercent
	}
	if next.DefaultDeadlineMinutes <= 0 {
		next.DefaultDeadlineMinutes = 15
	}
	p.cur.Store(&next)
	return next
}

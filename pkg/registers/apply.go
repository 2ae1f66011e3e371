package registers

import (
	"fmt"

	"github.com/golang/glog"
)

// WriteFunc writes one configuration register. ReadFunc reads one back for
// verification. Both are satisfied by the spibus layer's register methods.
type WriteFunc func(address, value uint8) error

type ReadFunc func(address uint8) (uint8, error)

// Apply walks a settings source in order and writes every entry. A failed
// entry is logged and counted but does not stop the batch; the chip is left
// with whatever subset succeeded. Entries flagged Verify are read back and
// compared after the write.
//
// The returned error is non-nil only when the source itself is malformed or
// when at least one entry failed; failed reports how many.
func Apply(src Source, write WriteFunc, read ReadFunc) (failed int, err error) {
	n := src.Len()
	glog.V(1).Infof("registers: applying %d settings", n)

	for i := 0; i < n; i++ {
		setting, err := src.At(i)
		if err != nil {
			return failed, fmt.Errorf("settings source entry %d: %w", i, err)
		}

		if err := write(setting.Addr, setting.Value); err != nil {
			glog.Errorf("registers: write 0x%02X=0x%02X failed: %v", setting.Addr, setting.Value, err)
			failed++
			continue
		}

		if !setting.Verify {
			glog.V(2).Infof("registers: wrote 0x%02X=0x%02X (unverified)", setting.Addr, setting.Value)
			continue
		}

		got, err := read(setting.Addr)
		if err != nil {
			glog.Errorf("registers: verify read of 0x%02X failed: %v", setting.Addr, err)
			failed++
			continue
		}
		if got != setting.Value {
			glog.Errorf("registers: verify 0x%02X: wrote 0x%02X, read back 0x%02X",
				setting.Addr, setting.Value, got)
			failed++
			continue
		}
		glog.V(2).Infof("registers: wrote 0x%02X=0x%02X (verified)", setting.Addr, setting.Value)
	}

	if failed > 0 {
		return failed, fmt.Errorf("%w: %d of %d settings failed", ErrApplyIncomplete, failed, n)
	}
	return 0, nil
}

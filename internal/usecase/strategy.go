package usecase

// TransferPlan describes how a payload of a given size reaches the object
// store: single-shot below the threshold, multipart at or above it.
type TransferPlan struct {
	Multipart bool
	PartSize  int64
	PartCount int64
}

// PlanTransfer is a pure function of size; no I/O. Parts are numbered from 1
// and are contiguous; every part is partSize bytes except the final one,
// which carries the remainder.
func PlanTransfer(sizeBytes, threshold, partSize int64) TransferPlan {
	if sizeBytes < threshold {
		return TransferPlan{Multipart: false}
	}

	count := sizeBytes / partSize
	if sizeBytes%partSize != 0 {
		count++
	}
	return TransferPlan{
		Multipart: true,
		PartSize:  partSize,
		PartCount: count,
	}
}

// NextPartSize returns the size of the part starting at offset sent, capped
// by the bytes remaining.
func (p TransferPlan) NextPartSize(sizeBytes, sent int64) int64 {
	remaining := sizeBytes - sent
	if remaining < p.PartSize {
		return remaining
	}
	return p.PartSize
}

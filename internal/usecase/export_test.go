package usecase

import "time"

// Test hooks for the time source of use cases.

func SetProgressClock(uc ProgressUseCase, now func() time.Time) { uc.(*progressUC).now = now }

func SetStatsClock(uc StatsUseCase, now func() time.Time) { uc.(*statsUC).now = now }

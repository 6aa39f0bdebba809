package prob_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestProb(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Prob Suite")
}

// Command latticedemo runs the encapsulation and signature flows end to end
// and prints sizes, timings and the signing rejection count.
package main

import (
	"bytes"
	crand "crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"time"

	"pqlattice/kem"
	"pqlattice/mlwe"
	"pqlattice/prof"
	"pqlattice/sign"
	"pqlattice/xof"
)

func main() {
	flow := flag.String("flow", "all", "which flow to run: kem, sign or all")
	msg := flag.String("msg", "hello lattice", "message to sign")
	iters := flag.Int("iters", 1, "repetitions for timing")
	kemRank := flag.Int("rank", 2, "module rank for the KEM (2, 3 or 4)")
	flag.Parse()

	if *flow == "kem" || *flow == "all" {
		runKEM(*kemRank, *iters)
	}
	if *flow == "sign" || *flow == "all" {
		runSign([]byte(*msg), *iters)
	}

	for _, st := range prof.Summarize(prof.SnapshotAndReset()) {
		fmt.Printf("%-18s x%-4d total %-12v mean %v\n", st.Label, st.Count, st.Total, st.Mean())
	}
}

func kemParams(rank int) mlwe.Params {
	switch rank {
	case 2:
		return mlwe.Kyber512
	case 3:
		return mlwe.Kyber768
	case 4:
		return mlwe.Kyber1024
	default:
		log.Fatalf("unsupported rank %d", rank)
		return mlwe.Params{}
	}
}

func runKEM(rank, iters int) {
	k, err := kem.New(kemParams(rank))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("kem rank=%d  pk=%dB sk=%dB ct=%dB\n",
		rank, k.PublicKeySize(), k.SecretKeySize(), k.CiphertextSize())

	for i := 0; i < iters; i++ {
		start := time.Now()
		pk, sk, err := k.GenerateKeyPair(crand.Reader)
		if err != nil {
			log.Fatal(err)
		}
		prof.Track(start, "kem/keygen")

		start = time.Now()
		ct, ssA, err := k.Encapsulate(pk, crand.Reader)
		if err != nil {
			log.Fatal(err)
		}
		prof.Track(start, "kem/encapsulate")

		start = time.Now()
		ssB, err := k.Decapsulate(sk, ct)
		if err != nil {
			log.Fatal(err)
		}
		prof.Track(start, "kem/decapsulate")

		if !bytes.Equal(ssA, ssB) {
			log.Fatal("shared secrets disagree")
		}

		// A flipped ciphertext bit must land on the rejection key.
		tampered := append([]byte(nil), ct...)
		tampered[0] ^= 1
		ssC, err := k.Decapsulate(sk, tampered)
		if err != nil {
			log.Fatal(err)
		}
		if i == 0 {
			fmt.Printf("kem shared secret %s\n", hex.EncodeToString(ssA))
			fmt.Printf("kem tampered ciphertext diverges: %v\n", !bytes.Equal(ssC, ssA))
		}
	}
}

func runSign(msg []byte, iters int) {
	s, err := sign.NewScheme(sign.Dilithium2)
	if err != nil {
		log.Fatal(err)
	}
	p := s.Params()
	fmt.Printf("sign k=%d l=%d  pk=%dB sk=%dB sig=%dB\n",
		p.K, p.L, p.PublicKeySize(), p.SecretKeySize(), p.SignatureSize())

	for i := 0; i < iters; i++ {
		seed := make([]byte, xof.SeedLen)
		if _, err := crand.Read(seed); err != nil {
			log.Fatal(err)
		}

		start := time.Now()
		pk, sk, err := s.KeyGen(seed)
		if err != nil {
			log.Fatal(err)
		}
		prof.Track(start, "sign/keygen")

		start = time.Now()
		sig, err := s.Sign(sk, msg)
		if err != nil {
			log.Fatal(err)
		}
		prof.Track(start, "sign/sign")

		start = time.Now()
		ok, err := s.Verify(pk, msg, sig)
		if err != nil {
			log.Fatal(err)
		}
		prof.Track(start, "sign/verify")

		if !ok {
			log.Fatal("signature did not verify")
		}
		if i == 0 {
			fmt.Printf("signature valid after %d rejection iteration(s), challenge %s\n",
				sig.Attempts, hex.EncodeToString(sig.C[:]))
		}
	}
}

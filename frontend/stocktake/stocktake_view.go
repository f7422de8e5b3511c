package stocktake

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"

	sharedhtml "stocktaker/frontend/shared/html"
	"stocktaker/frontend/shared/nav"
)

// StocktakePage renders the scanning screen: manual entry, camera modal,
// live pipeline status and the session ledger.
func StocktakePage(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(nav.RenderTopNav(data.Nav))
		b.WriteString(`<main class="stocktake-page">`)
		if data.Message != "" {
			b.WriteString(`<p class="alert alert-info">` + html.EscapeString(data.Message) + `</p>`)
		}

		b.WriteString(`<section class="card scan-card">`)
		b.WriteString(`<h2>Scan</h2>`)
		b.WriteString(`<div class="scan-entry">`)
		b.WriteString(`<input id="scan-input" type="text" inputmode="numeric" placeholder="Type or scan a barcode" autofocus autocomplete="off">`)
		b.WriteString(`<button id="scan-submit" class="btn btn-primary" type="button" onclick="submitManualScan()">Add</button>`)
		b.WriteString(`<button class="btn" type="button" onclick="openScanModal()">Camera</button>`)
		b.WriteString(`</div>`)
		b.WriteString(`<p id="scan-status" class="hint">Ready</p>`)
		b.WriteString(`<div id="queue-panel" class="hint hidden"></div>`)
		b.WriteString(`</section>`)

		b.WriteString(`<dialog id="choice-modal" class="modal"><div class="modal-box">`)
		b.WriteString(`<h3>Multiple products match</h3>`)
		b.WriteString(`<ul id="choice-list" class="choice-list"></ul>`)
		b.WriteString(`<div class="modal-action"><button class="btn" type="button" onclick="cancelChoice()">Skip this scan</button></div>`)
		b.WriteString(`</div></dialog>`)

		b.WriteString(`<dialog id="error-modal" class="modal"><div class="modal-box">`)
		b.WriteString(`<h3>Scan failed</h3>`)
		b.WriteString(`<p id="error-message"></p>`)
		b.WriteString(`<div class="modal-action"><button class="btn btn-primary" type="button" onclick="dismissError()">Dismiss</button></div>`)
		b.WriteString(`</div></dialog>`)

		writeLedgerSection(&b, data)
		b.WriteString(`</main>`)
		b.WriteString(renderScanModal())
		b.WriteString(renderStocktakeScript())
		b.WriteString(sharedhtml.CSRFFormScript())
		_, err := io.WriteString(w, sharedhtml.RenderLayout("Stocktaker - Stocktake", b.String()))
		return err
	})
}

func writeLedgerSection(b *strings.Builder, data PageData) {
	b.WriteString(`<section class="card ledger-card">`)
	b.WriteString(`<div class="ledger-head"><h2>This Session</h2>`)
	fmt.Fprintf(b, `<span id="ledger-total" class="badge">%d units added</span>`, data.TotalAdded)
	b.WriteString(`<a class="btn btn-sm" href="/tasker/exports/session.csv">CSV</a>`)
	b.WriteString(`<a class="btn btn-sm" href="/tasker/exports/session.pdf">PDF</a>`)
	b.WriteString(`<button class="btn btn-sm" type="button" onclick="clearSession()">New Count</button>`)
	b.WriteString(`</div>`)
	b.WriteString(`<table class="ledger-table"><thead><tr><th></th><th>Product</th><th>Barcode</th><th>Added</th><th>Stock</th></tr></thead>`)
	b.WriteString(`<tbody id="ledger-body">`)
	for _, item := range data.Items {
		b.WriteString(`<tr>`)
		if item.ImageURL != "" {
			fmt.Fprintf(b, `<td><img class="ledger-thumb" src="%s" alt=""></td>`, html.EscapeString(item.ImageURL))
		} else {
			b.WriteString(`<td></td>`)
		}
		fmt.Fprintf(b, `<td>%s<br><span class="hint">%s</span></td>`, html.EscapeString(item.ProductName), html.EscapeString(item.Reference))
		fmt.Fprintf(b, `<td>%s <span class="hint">%s</span></td>`, html.EscapeString(item.Barcode), html.EscapeString(item.Symbology))
		fmt.Fprintf(b, `<td>+%d</td>`, item.QuantityAdded)
		fmt.Fprintf(b, `<td>%d &rarr; %d</td>`, item.StockBefore, item.StockAfter)
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table>`)
	if len(data.Items) == 0 {
		b.WriteString(`<p id="ledger-empty" class="hint">Nothing counted yet. Scan a barcode to begin.</p>`)
	}
	b.WriteString(`</section>`)
}

func renderScanModal() string {
	return `<dialog id="scan-modal" class="modal">
  <div class="modal-box max-w-3xl">
    <h3>Scan Barcode</h3>
    <div id="scan-reader" class="scan-reader"></div>
    <p id="camera-status" class="hint">Camera idle</p>
    <div class="modal-action">
      <button class="btn" type="button" onclick="closeScanModal()">Close</button>
    </div>
  </div>
</dialog>
<script>
let quaggaRunning = false;
let onProcessedHandler = null;

function setCameraStatus(msg) {
  const el = document.getElementById("camera-status");
  if (el) el.textContent = msg;
}

function loadQuaggaScript() {
  if (window.Quagga) return Promise.resolve();
  return new Promise((resolve, reject) => {
    const s = document.createElement("script");
    s.src = "https://cdn.jsdelivr.net/npm/@ericblade/quagga2@1.8.4/dist/quagga.min.js";
    s.onload = resolve;
    s.onerror = reject;
    document.head.appendChild(s);
  });
}

async function openScanModal() {
  const modal = document.getElementById("scan-modal");
  if (!modal) return;
  modal.showModal();
  setCameraStatus("Starting camera...");
  try {
    await startScanner();
  } catch (err) {
    setCameraStatus("Camera failed: " + (err && err.message ? err.message : err));
  }
}

function closeScanModal() {
  stopScanner();
  const modal = document.getElementById("scan-modal");
  if (modal && modal.open) modal.close();
  setCameraStatus("Camera idle");
}

function frameFromResult(result) {
  if (!result || !result.codeResult || !result.codeResult.code) {
    return { code: "", decodeError: 0 };
  }
  let sum = 0;
  let n = 0;
  const decoded = result.codeResult.decodedCodes || [];
  for (let i = 0; i < decoded.length; i++) {
    if (typeof decoded[i].error === "number") {
      sum += decoded[i].error;
      n++;
    }
  }
  return { code: result.codeResult.code, decodeError: n > 0 ? sum / n : 0 };
}

async function startScanner() {
  if (quaggaRunning) return;
  await loadQuaggaScript();
  const target = document.getElementById("scan-reader");
  if (!target) throw new Error("scan target missing");

  await new Promise((resolve, reject) => {
    window.Quagga.init({
      inputStream: {
        type: "LiveStream",
        target: target,
        constraints: {
          facingMode: { ideal: "environment" }
        }
      },
      decoder: {
        readers: ["ean_reader", "ean_8_reader", "upc_reader"]
      },
      locate: true
    }, (err) => {
      if (err) return reject(err);
      return resolve();
    });
  });

  if (onProcessedHandler) {
    window.Quagga.offProcessed(onProcessedHandler);
  }

  onProcessedHandler = function(result) {
    const frame = frameFromResult(result);
    postJSON("/tasker/api/stocktake/camera/frames", frame).then(function(resp) {
      if (resp && resp.accepted) {
        setCameraStatus("Scanned " + resp.code);
        refreshState(resp.state);
      } else if (resp && resp.error) {
        setCameraStatus(resp.error);
      }
    }).catch(function() {});
  };
  window.Quagga.onProcessed(onProcessedHandler);
  window.Quagga.start();
  quaggaRunning = true;
  setCameraStatus("Point the camera at a barcode");
}

function stopScanner() {
  if (!window.Quagga || !quaggaRunning) return;
  if (onProcessedHandler) {
    window.Quagga.offProcessed(onProcessedHandler);
  }
  window.Quagga.stop();
  quaggaRunning = false;
}
</script>`
}

func renderStocktakeScript() string {
	return `<script>
function postJSON(path, body) {
  return fetch(path, {
    method: "POST",
    headers: {
      "Content-Type": "application/json",
      "X-CSRF-Token": window.csrfToken ? window.csrfToken() : ""
    },
    body: JSON.stringify(body || {})
  }).then(function(resp) { return resp.json(); });
}

function setScanStatus(msg) {
  const el = document.getElementById("scan-status");
  if (el) el.textContent = msg;
}

function submitManualScan() {
  const input = document.getElementById("scan-input");
  if (!input) return;
  const code = input.value.trim();
  if (!code) return;
  input.value = "";
  input.focus();
  postJSON("/tasker/api/stocktake/scans", { code: code }).then(function(resp) {
    if (resp && resp.error) {
      setScanStatus(resp.error);
      return;
    }
    refreshState(resp);
  });
}

(function attachEnterToScan() {
  const input = document.getElementById("scan-input");
  if (!input) return;
  input.addEventListener("keydown", function(e) {
    if (e.key === "Enter") {
      e.preventDefault();
      submitManualScan();
    }
  });
})();

let lastLedgerRefresh = 0;

function refreshState(state) {
  if (!state) return;
  renderQueue(state);
  renderChoice(state);
  renderError(state);
  if (state.state === "idle" && !state.heldError) {
    if (state.lastResult) {
      setScanStatus("Added " + state.lastResult.match.name + " (" + state.lastResult.change.before + " → " + state.lastResult.change.after + ")");
    } else {
      setScanStatus("Ready");
    }
    refreshLedger();
  } else if (state.state === "processing" || state.state === "updating") {
    setScanStatus("Working on " + (state.current || "scan") + "...");
  }
}

function renderQueue(state) {
  const panel = document.getElementById("queue-panel");
  if (!panel) return;
  const queued = state.queued || [];
  if (queued.length === 0) {
    panel.classList.add("hidden");
    panel.textContent = "";
    return;
  }
  panel.classList.remove("hidden");
  panel.textContent = queued.length + " scan(s) waiting: " + queued.join(", ");
}

function renderChoice(state) {
  const modal = document.getElementById("choice-modal");
  const list = document.getElementById("choice-list");
  if (!modal || !list) return;
  if (state.state !== "awaiting_choice") {
    if (modal.open) modal.close();
    return;
  }
  list.innerHTML = "";
  (state.candidates || []).forEach(function(candidate, i) {
    const li = document.createElement("li");
    const btn = document.createElement("button");
    btn.type = "button";
    btn.className = "btn choice-btn";
    btn.textContent = candidate.name + (candidate.reference ? " [" + candidate.reference + "]" : "");
    btn.onclick = function() { chooseMatch(i); };
    li.appendChild(btn);
    list.appendChild(li);
  });
  if (!modal.open) modal.showModal();
}

function renderError(state) {
  const modal = document.getElementById("error-modal");
  const msg = document.getElementById("error-message");
  if (!modal || !msg) return;
  if (!state.heldError) {
    if (modal.open) modal.close();
    return;
  }
  msg.textContent = state.heldError;
  if (!modal.open) modal.showModal();
}

function chooseMatch(index) {
  postJSON("/tasker/api/stocktake/choice", { index: index }).then(refreshState);
}

function cancelChoice() {
  postJSON("/tasker/api/stocktake/choice/cancel", {}).then(refreshState);
}

function dismissError() {
  postJSON("/tasker/api/stocktake/error/dismiss", {}).then(refreshState);
}

function clearSession() {
  if (!window.confirm("Start a new count? The current session list will be cleared.")) return;
  postJSON("/tasker/api/stocktake/session/clear", {}).then(function() {
    window.location.reload();
  });
}

function refreshLedger() {
  const now = Date.now();
  if (now - lastLedgerRefresh < 400) return;
  lastLedgerRefresh = now;
  fetch("/tasker/api/stocktake/session/items").then(function(resp) {
    return resp.json();
  }).then(function(data) {
    const body = document.getElementById("ledger-body");
    const total = document.getElementById("ledger-total");
    const empty = document.getElementById("ledger-empty");
    if (!body) return;
    body.innerHTML = "";
    (data.items || []).forEach(function(item) {
      const tr = document.createElement("tr");
      const imgCell = document.createElement("td");
      if (item.imageUrl) {
        const img = document.createElement("img");
        img.className = "ledger-thumb";
        img.src = item.imageUrl;
        img.alt = "";
        imgCell.appendChild(img);
      }
      tr.appendChild(imgCell);
      const nameCell = document.createElement("td");
      nameCell.textContent = item.productName;
      if (item.reference) {
        const ref = document.createElement("span");
        ref.className = "hint";
        ref.textContent = item.reference;
        nameCell.appendChild(document.createElement("br"));
        nameCell.appendChild(ref);
      }
      tr.appendChild(nameCell);
      const codeCell = document.createElement("td");
      codeCell.textContent = item.barcode + " " + item.symbology;
      tr.appendChild(codeCell);
      const qtyCell = document.createElement("td");
      qtyCell.textContent = "+" + item.quantityAdded;
      tr.appendChild(qtyCell);
      const stockCell = document.createElement("td");
      stockCell.textContent = item.stockBefore + " → " + item.stockAfter;
      tr.appendChild(stockCell);
      body.appendChild(tr);
    });
    if (total) total.textContent = (data.totalAdded || 0) + " units added";
    if (empty) empty.classList.toggle("hidden", (data.items || []).length > 0);
  }).catch(function() {});
}

setInterval(function() {
  fetch("/tasker/api/stocktake/state").then(function(resp) {
    return resp.json();
  }).then(refreshState).catch(function() {});
}, 750);
</script>`
}

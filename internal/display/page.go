package display

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>scopectl</title>
  <style>
    :root { color-scheme: dark; font-family: "Segoe UI", Arial, sans-serif; background: #0b1c2c; color: #e8f0f7; }
    body { margin: 0; display: grid; place-items: center; height: 100vh; }
    .card { background: rgba(16, 38, 58, 0.9); border: 1px solid #264c6f; border-radius: 14px; padding: 16px 20px; }
    canvas { background: #081420; border: 1px solid #1d3a57; border-radius: 8px; display: block; }
    .row { display: flex; gap: 8px; margin-top: 10px; align-items: center; }
    button { background: #14334f; color: #e8f0f7; border: 1px solid #2d5780; border-radius: 8px; padding: 6px 10px; cursor: pointer; }
    button:hover { background: #1c4268; }
    #freq { margin-left: auto; font-variant-numeric: tabular-nums; }
  </style>
</head>
<body>
  <div class="card">
    <canvas id="trace" width="800" height="400"></canvas>
    <div class="row">
      <button data-cmd="increase_vertical">V+</button>
      <button data-cmd="decrease_vertical">V-</button>
      <button data-cmd="increase_horizontal">H+</button>
      <button data-cmd="decrease_horizontal">H-</button>
      <button data-cmd="auto_scale">Auto</button>
      <button data-cmd="toggle_pause" id="pause">Pause</button>
      <span id="freq">-- Hz</span>
    </div>
  </div>
  <script>
    const canvas = document.getElementById("trace");
    const ctx = canvas.getContext("2d");
    const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");

    document.querySelectorAll("button").forEach(btn => {
      btn.addEventListener("click", () => ws.send(JSON.stringify({command: btn.dataset.cmd})));
    });

    ws.onmessage = ev => {
      const frame = JSON.parse(ev.data);
      const samples = frame.samples;
      const v = frame.view;

      let lo, hi;
      if (v.absolute) {
        lo = v.vertical_range.min;
        hi = v.vertical_range.max;
      } else {
        lo = 0;
        hi = 3.3 / v.vertical_scale;
      }
      if (hi <= lo) { hi = lo + 1e-3; }

      const span = v.absolute && v.horizontal_span > 0
        ? v.horizontal_span
        : Math.max(1, Math.round(samples.length / v.horizontal_scale));
      const visible = samples.slice(samples.length - Math.min(span, samples.length));

      ctx.clearRect(0, 0, canvas.width, canvas.height);
      ctx.strokeStyle = "#53c2f0";
      ctx.beginPath();
      visible.forEach((s, i) => {
        const x = i / (visible.length - 1 || 1) * canvas.width;
        const y = canvas.height - (s - lo) / (hi - lo) * canvas.height;
        i === 0 ? ctx.moveTo(x, y) : ctx.lineTo(x, y);
      });
      ctx.stroke();

      document.getElementById("freq").textContent = frame.dominant_hz.toFixed(1) + " Hz";
      document.getElementById("pause").textContent = v.paused ? "Resume" : "Pause";
    };
  </script>
</body>
</html>`
